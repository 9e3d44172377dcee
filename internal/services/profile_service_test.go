package services_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/scribe-backend/internal/services"
)

func strPtr(s string) *string { return &s }

var _ = Describe("ProfileService", func() {
	var (
		e        *env
		service  *services.ProfileService
		ctx      context.Context
		identity *entities.Identity
	)

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
		service = services.NewProfileService(e.users, e.profiles, e.prefs, e.uow, e.logger)

		e.verifier.Register("tok-ana", "uid-ana", "ana@example.com")
		var err error
		identity, err = services.NewIdentityService(e.verifier, e.users, e.uow, e.logger).Resolve(ctx, "tok-ana")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("GetProfile", func() {
		It("materializes both rows with defaults for a brand-new user", func() {
			view, err := service.GetProfile(ctx, identity)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Profile.FullName).To(BeNil())
			Expect(view.Profile.Bio).To(BeNil())
			Expect(view.Preferences.Theme).To(Equal("light"))
			Expect(view.Preferences.AIModelPreference).To(Equal("gpt-4"))
			Expect(view.Preferences.WritingStyle).To(BeNil())
			Expect(view.SubscriptionStatus).To(Equal(entities.SubscriptionFree))
			Expect(view.SubscriptionEndDate).To(BeNil())

			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
			Expect(e.countRows(&postgres.PreferencesModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})

		It("does not create duplicates on repeated reads", func() {
			for range 3 {
				_, err := service.GetProfile(ctx, identity)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
			Expect(e.countRows(&postgres.PreferencesModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})

		It("creates only the missing half of the pair", func() {
			Expect(e.profiles.Create(ctx, &entities.UserProfile{UserID: identity.UserID, FullName: strPtr("Ana")})).To(Succeed())

			view, err := service.GetProfile(ctx, identity)

			Expect(err).NotTo(HaveOccurred())
			Expect(*view.Profile.FullName).To(Equal("Ana"))
			Expect(view.Preferences.Theme).To(Equal("light"))
		})

		It("reads the subscription from the user row", func() {
			end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
			Expect(e.users.UpdateSubscription(ctx, identity.UserID, entities.SubscriptionPro, &end)).To(Succeed())

			view, err := service.GetProfile(ctx, identity)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.SubscriptionStatus).To(Equal(entities.SubscriptionPro))
			Expect(view.SubscriptionEndDate).NotTo(BeNil())
			Expect(view.SubscriptionEndDate.Equal(end)).To(BeTrue())
		})

		It("fails with NotFound for an unknown user", func() {
			_, err := service.GetProfile(ctx, &entities.Identity{UserID: 9999})

			Expect(errors.Is(err, domainerrors.ErrNotFound)).To(BeTrue())
		})

		It("survives concurrent first reads", func() {
			const workers = 6
			var wg sync.WaitGroup
			errs := make([]error, workers)

			for i := range workers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, errs[i] = service.GetProfile(ctx, identity)
				}()
			}
			wg.Wait()

			for _, err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
			Expect(e.countRows(&postgres.PreferencesModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})
	})

	Describe("UpdateProfile", func() {
		It("creates the rows when the first request is a write", func() {
			err := service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile: entities.ProfilePatch{FullName: strPtr("Ana Souza")},
			})
			Expect(err).NotTo(HaveOccurred())

			view, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.Profile.FullName).To(Equal("Ana Souza"))
			Expect(view.Preferences.Theme).To(Equal("light"))
		})

		It("round-trips written values verbatim", func() {
			settings := json.RawMessage(`{"email":true,"digest":"weekly"}`)
			err := service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile: entities.ProfilePatch{
					FullName:          strPtr("Ana Souza"),
					Bio:               strPtr("Escrevo  ficção\ncientífica ✨"),
					WritingExperience: strPtr("intermediate"),
					GenreFocus:        strPtr("sci-fi"),
				},
				Preferences: entities.PreferencesPatch{
					Theme:                strPtr("dark"),
					WritingStyle:         strPtr("concise"),
					AIModelPreference:    strPtr("gpt-4o"),
					NotificationSettings: settings,
				},
			})
			Expect(err).NotTo(HaveOccurred())

			view, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.Profile.FullName).To(Equal("Ana Souza"))
			Expect(*view.Profile.Bio).To(Equal("Escrevo  ficção\ncientífica ✨"))
			Expect(*view.Profile.WritingExperience).To(Equal("intermediate"))
			Expect(*view.Profile.GenreFocus).To(Equal("sci-fi"))
			Expect(view.Preferences.Theme).To(Equal("dark"))
			Expect(*view.Preferences.WritingStyle).To(Equal("concise"))
			Expect(view.Preferences.AIModelPreference).To(Equal("gpt-4o"))
			Expect(view.Preferences.NotificationSettings).To(MatchJSON(settings))
		})

		It("leaves omitted fields untouched", func() {
			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile:     entities.ProfilePatch{FullName: strPtr("Ana"), Bio: strPtr("bio original")},
				Preferences: entities.PreferencesPatch{Theme: strPtr("dark"), WritingStyle: strPtr("formal")},
			})).To(Succeed())

			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile:     entities.ProfilePatch{Bio: strPtr("bio nova")},
				Preferences: entities.PreferencesPatch{AIModelPreference: strPtr("claude")},
			})).To(Succeed())

			view, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.Profile.FullName).To(Equal("Ana"))
			Expect(*view.Profile.Bio).To(Equal("bio nova"))
			Expect(view.Preferences.Theme).To(Equal("dark"))
			Expect(*view.Preferences.WritingStyle).To(Equal("formal"))
			Expect(view.Preferences.AIModelPreference).To(Equal("claude"))
		})

		It("overwrites a field with an explicit empty string", func() {
			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile: entities.ProfilePatch{GenreFocus: strPtr("fantasy")},
			})).To(Succeed())
			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile: entities.ProfilePatch{GenreFocus: strPtr("")},
			})).To(Succeed())

			view, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.Profile.GenreFocus).To(BeEmpty())
		})

		It("clears the fields listed as null", func() {
			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile:     entities.ProfilePatch{Bio: strPtr("rascunho"), GenreFocus: strPtr("fantasy")},
				Preferences: entities.PreferencesPatch{Theme: strPtr("dark"), WritingStyle: strPtr("formal")},
			})).To(Succeed())

			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile:     entities.ProfilePatch{Null: []entities.ProfileField{entities.ProfileBio}},
				Preferences: entities.PreferencesPatch{Null: []entities.PreferenceField{entities.PreferenceTheme, entities.PreferenceWritingStyle}},
			})).To(Succeed())

			view, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Profile.Bio).To(BeNil())
			Expect(*view.Profile.GenreFocus).To(Equal("fantasy"))
			Expect(view.Preferences.Theme).To(Equal("light"))
			Expect(view.Preferences.WritingStyle).To(BeNil())
		})

		It("accepts an empty payload", func() {
			Expect(service.UpdateProfile(ctx, identity, services.UpdateProfileInput{})).To(Succeed())
			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})
	})

	Describe("losing the lazy creation race", func() {
		var (
			racing *racingProfiles
			uow    *recordingUoW
		)

		BeforeEach(func() {
			// Linha gravada pela requisição concorrente que venceu
			Expect(e.profiles.Create(ctx, &entities.UserProfile{
				UserID:   identity.UserID,
				FullName: strPtr("Winner"),
			})).To(Succeed())

			racing = &racingProfiles{ProfileRepository: e.profiles}
			uow = &recordingUoW{UnitOfWork: e.uow}
			service = services.NewProfileService(e.users, racing, e.prefs, uow, e.logger)
		})

		It("rereads the winner's row on GetProfile", func() {
			view, err := service.GetProfile(ctx, identity)

			Expect(err).NotTo(HaveOccurred())
			Expect(racing.createCalls()).To(Equal(1))
			Expect(view.Profile.FullName).NotTo(BeNil())
			Expect(*view.Profile.FullName).To(Equal("Winner"))
			Expect(view.Preferences.Theme).To(Equal("light"))
			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
			Expect(e.countRows(&postgres.PreferencesModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})

		It("applies the patch to the winner's row on UpdateProfile", func() {
			err := service.UpdateProfile(ctx, identity, services.UpdateProfileInput{
				Profile: entities.ProfilePatch{Bio: strPtr("Escreve ficção científica")},
			})
			Expect(err).NotTo(HaveOccurred())

			profile, err := e.profiles.FindByUserID(ctx, identity.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*profile.FullName).To(Equal("Winner"))
			Expect(*profile.Bio).To(Equal("Escreve ficção científica"))
			Expect(e.countRows(&postgres.ProfileModel{}, "user_id = ?", identity.UserID)).To(BeEquivalentTo(1))
		})

		It("runs both attempts serializable", func() {
			_, err := service.GetProfile(ctx, identity)
			Expect(err).NotTo(HaveOccurred())

			Expect(uow.isolationLevels()).To(Equal([]sql.IsolationLevel{
				sql.LevelSerializable, sql.LevelSerializable,
			}))
		})

		It("gives up after a single retry", func() {
			always := &alwaysConflicting{ProfileRepository: e.profiles}
			service = services.NewProfileService(e.users, always, e.prefs, uow, e.logger)

			_, err := service.GetProfile(ctx, identity)

			Expect(errors.Is(err, domainerrors.ErrConflict)).To(BeTrue())
			Expect(always.creates).To(Equal(2))
		})
	})

	Describe("repository Update without ensure", func() {
		It("keeps the NotFound contract", func() {
			_, err := e.profiles.Update(ctx, identity.UserID, entities.ProfilePatch{FullName: strPtr("x")})
			Expect(errors.Is(err, domainerrors.ErrNotFound)).To(BeTrue())

			_, err = e.prefs.Update(ctx, identity.UserID, entities.PreferencesPatch{Theme: strPtr("dark")})
			Expect(errors.Is(err, domainerrors.ErrNotFound)).To(BeTrue())
		})
	})
})
