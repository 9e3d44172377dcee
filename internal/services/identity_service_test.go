package services_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/scribe-backend/internal/services"
)

var _ = Describe("IdentityService", func() {
	var (
		e       *env
		service *services.IdentityService
		ctx     context.Context
	)

	BeforeEach(func() {
		e = newEnv()
		service = services.NewIdentityService(e.verifier, e.users, e.uow, e.logger)
		ctx = context.Background()
	})

	Describe("Resolve", func() {
		Context("with a token never seen before", func() {
			It("creates exactly one free user", func() {
				e.verifier.Register("tok-ana", "uid-ana", "Ana@Example.com")

				identity, err := service.Resolve(ctx, "tok-ana")

				Expect(err).NotTo(HaveOccurred())
				Expect(identity.UserID).NotTo(BeZero())
				Expect(identity.FirebaseUID).To(Equal("uid-ana"))
				Expect(identity.Email).To(Equal("ana@example.com"))
				Expect(e.countRows(&postgres.UserModel{}, "firebase_uid = ?", "uid-ana")).To(BeEquivalentTo(1))

				user, err := e.users.FindByID(ctx, identity.UserID)
				Expect(err).NotTo(HaveOccurred())
				Expect(user.SubscriptionStatus).To(Equal(entities.SubscriptionFree))
				Expect(user.SubscriptionEndDate).To(BeNil())
				Expect(user.HasStripeCustomer()).To(BeFalse())
			})

			It("provisions users without an email claim", func() {
				e.verifier.Register("tok-phone", "uid-phone", "")
				e.verifier.Register("tok-anon", "uid-anon", "")

				first, err := service.Resolve(ctx, "tok-phone")
				Expect(err).NotTo(HaveOccurred())
				second, err := service.Resolve(ctx, "tok-anon")
				Expect(err).NotTo(HaveOccurred())

				Expect(first.Email).To(BeEmpty())
				Expect(second.Email).To(BeEmpty())
				Expect(first.UserID).NotTo(Equal(second.UserID))
			})

			DescribeTable("stores the provider's email claim normalised",
				func(claim, stored string) {
					e.verifier.Register("tok-claim", "uid-claim", claim)

					identity, err := service.Resolve(ctx, "tok-claim")
					Expect(err).NotTo(HaveOccurred())
					Expect(identity.Email).To(Equal(stored))

					user, err := e.users.FindByFirebaseUID(ctx, "uid-claim")
					Expect(err).NotTo(HaveOccurred())
					Expect(user.Email.String()).To(Equal(stored))
				},
				Entry("apostrophe in the local part", "o'brien@example.com", "o'brien@example.com"),
				Entry("internationalised local part", "josé@exemplo.com.br", "josé@exemplo.com.br"),
				Entry("mixed case", " User@Example.COM", "user@example.com"),
			)

			It("provisions inside a serializable transaction", func() {
				uow := &recordingUoW{UnitOfWork: e.uow}
				service = services.NewIdentityService(e.verifier, e.users, uow, e.logger)
				e.verifier.Register("tok-iso", "uid-iso", "iso@example.com")

				_, err := service.Resolve(ctx, "tok-iso")

				Expect(err).NotTo(HaveOccurred())
				Expect(uow.isolationLevels()).To(Equal([]sql.IsolationLevel{sql.LevelSerializable}))
			})
		})

		Context("with a token seen before", func() {
			It("returns the same user id on every call", func() {
				e.verifier.Register("tok-ana", "uid-ana", "ana@example.com")

				first, err := service.Resolve(ctx, "tok-ana")
				Expect(err).NotTo(HaveOccurred())

				for range 3 {
					again, err := service.Resolve(ctx, "tok-ana")
					Expect(err).NotTo(HaveOccurred())
					Expect(again.UserID).To(Equal(first.UserID))
				}
				Expect(e.countRows(&postgres.UserModel{}, "1 = 1")).To(BeEquivalentTo(1))
			})
		})

		Context("with an invalid token", func() {
			It("fails as unauthenticated", func() {
				_, err := service.Resolve(ctx, "forged")

				Expect(errors.Is(err, domainerrors.ErrUnauthenticated)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("token signature is invalid"))
				Expect(e.countRows(&postgres.UserModel{}, "1 = 1")).To(BeZero())
			})

			It("fails as unauthenticated when the token is missing", func() {
				_, err := service.Resolve(ctx, "  ")

				de, ok := domainerrors.As(err)
				Expect(ok).To(BeTrue())
				Expect(de.Kind).To(Equal(domainerrors.ErrUnauthenticated))
				Expect(de.Message).To(Equal(domainerrors.MsgMissingToken))
			})

			It("fails as unauthenticated when the provider is unreachable", func() {
				e.verifier.Err = errors.New("dial tcp: i/o timeout")

				_, err := service.Resolve(ctx, "tok-ana")

				Expect(errors.Is(err, domainerrors.ErrUnauthenticated)).To(BeTrue())
			})
		})

		Context("when the email already belongs to another subject", func() {
			It("surfaces the conflict", func() {
				e.verifier.Register("tok-a", "uid-a", "shared@example.com")
				e.verifier.Register("tok-b", "uid-b", "shared@example.com")

				_, err := service.Resolve(ctx, "tok-a")
				Expect(err).NotTo(HaveOccurred())

				_, err = service.Resolve(ctx, "tok-b")
				Expect(errors.Is(err, domainerrors.ErrConflict)).To(BeTrue())
			})
		})

		Context("with concurrent first-time requests for the same subject", func() {
			It("keeps exactly one user and resolves every request to it", func() {
				e.verifier.Register("tok-race", "uid-race", "race@example.com")

				const workers = 8
				var wg sync.WaitGroup
				ids := make([]uint, workers)
				errs := make([]error, workers)

				for i := range workers {
					wg.Add(1)
					go func() {
						defer GinkgoRecover()
						defer wg.Done()
						identity, err := service.Resolve(ctx, "tok-race")
						errs[i] = err
						if identity != nil {
							ids[i] = identity.UserID
						}
					}()
				}
				wg.Wait()

				for i := range workers {
					Expect(errs[i]).NotTo(HaveOccurred())
					Expect(ids[i]).To(Equal(ids[0]))
				}
				Expect(e.countRows(&postgres.UserModel{}, "firebase_uid = ?", "uid-race")).To(BeEquivalentTo(1))
			})
		})
	})
})
