package ports

// Logger é o log estruturado usado por todas as camadas.
// args são pares chave/valor, como em log/slog.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	// With retorna um logger que inclui args em todas as mensagens
	With(args ...any) Logger
}
