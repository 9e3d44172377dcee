package services_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/services"
)

var _ = Describe("BillingService", func() {
	var (
		e        *env
		service  *services.BillingService
		ctx      context.Context
		identity *entities.Identity
	)

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
		service = services.NewBillingService(e.users, e.gateway, entities.NewPlanCatalog("price_lite", "price_pro"), e.logger)

		e.verifier.Register("tok-ana", "uid-ana", "ana@example.com")
		var err error
		identity, err = services.NewIdentityService(e.verifier, e.users, e.uow, e.logger).Resolve(ctx, "tok-ana")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateCheckoutSession", func() {
		It("creates and stores a customer on the first call", func() {
			session, err := service.CreateCheckoutSession(ctx, identity, "price_lite")

			Expect(err).NotTo(HaveOccurred())
			Expect(session.URL).To(HavePrefix("https://checkout.stripe.com/"))
			Expect(e.gateway.CustomerCalls()).To(Equal(1))
			Expect(e.gateway.Customers[0].Email).To(Equal("ana@example.com"))
			Expect(e.gateway.Customers[0].FirebaseUID).To(Equal("uid-ana"))
			Expect(e.gateway.Customers[0].IdempotencyKey).NotTo(BeEmpty())

			user, err := e.users.FindByID(ctx, identity.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.StripeCustomerID).NotTo(BeNil())
			Expect(*user.StripeCustomerID).To(Equal("cus_test_1"))

			Expect(e.gateway.Checkouts).To(HaveLen(1))
			Expect(e.gateway.Checkouts[0].CustomerID).To(Equal("cus_test_1"))
			Expect(e.gateway.Checkouts[0].PriceID).To(Equal("price_lite"))
			Expect(e.gateway.Checkouts[0].Plan).To(Equal("lite"))
		})

		It("reuses the stored customer on later calls", func() {
			_, err := service.CreateCheckoutSession(ctx, identity, "price_lite")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateCheckoutSession(ctx, identity, "price_pro")
			Expect(err).NotTo(HaveOccurred())

			Expect(e.gateway.CustomerCalls()).To(Equal(1))
			Expect(e.gateway.Checkouts).To(HaveLen(2))
			Expect(e.gateway.Checkouts[1].CustomerID).To(Equal("cus_test_1"))
			Expect(e.gateway.Checkouts[1].Plan).To(Equal("pro"))
		})

		It("converges on one customer under concurrent first checkouts", func() {
			const workers = 5
			var wg sync.WaitGroup
			errs := make([]error, workers)

			for i := range workers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, errs[i] = service.CreateCheckoutSession(ctx, identity, "price_lite")
				}()
			}
			wg.Wait()

			for _, err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}

			user, err := e.users.FindByID(ctx, identity.UserID)
			Expect(err).NotTo(HaveOccurred())
			for _, checkout := range e.gateway.Checkouts {
				Expect(checkout.CustomerID).To(Equal(*user.StripeCustomerID))
			}
		})

		It("rejects a price outside the catalog", func() {
			_, err := service.CreateCheckoutSession(ctx, identity, "price_unknown")

			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
			Expect(e.gateway.CustomerCalls()).To(BeZero())
		})

		It("rejects an empty price", func() {
			_, err := service.CreateCheckoutSession(ctx, identity, " ")

			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
		})

		It("passes any price through when no catalog is configured", func() {
			open := services.NewBillingService(e.users, e.gateway, entities.NewPlanCatalog("", ""), e.logger)

			_, err := open.CreateCheckoutSession(ctx, identity, "price_adhoc")

			Expect(err).NotTo(HaveOccurred())
			Expect(e.gateway.Checkouts[0].PriceID).To(Equal("price_adhoc"))
		})

		It("does not persist anything when customer creation fails", func() {
			e.gateway.CustomerErr = domainerrors.PaymentProvider(domainerrors.MsgCustomerCreation, errors.New("api down"))

			_, err := service.CreateCheckoutSession(ctx, identity, "price_lite")

			Expect(errors.Is(err, domainerrors.ErrPaymentProvider)).To(BeTrue())
			user, findErr := e.users.FindByID(ctx, identity.UserID)
			Expect(findErr).NotTo(HaveOccurred())
			Expect(user.StripeCustomerID).To(BeNil())
			Expect(e.gateway.CheckoutCalls()).To(BeZero())
		})

		It("keeps the stored customer when checkout creation fails", func() {
			e.gateway.CheckoutErr = domainerrors.PaymentProvider(domainerrors.MsgCheckoutCreation, errors.New("no such price"))

			_, err := service.CreateCheckoutSession(ctx, identity, "price_lite")

			Expect(errors.Is(err, domainerrors.ErrPaymentProvider)).To(BeTrue())
			user, findErr := e.users.FindByID(ctx, identity.UserID)
			Expect(findErr).NotTo(HaveOccurred())
			Expect(user.HasStripeCustomer()).To(BeTrue())
		})

		It("fails with NotFound for an unknown user", func() {
			_, err := service.CreateCheckoutSession(ctx, &entities.Identity{UserID: 4242}, "price_lite")

			Expect(errors.Is(err, domainerrors.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("Plans", func() {
		It("lists free, lite and pro in order", func() {
			plans := service.Plans()

			Expect(plans).To(HaveLen(3))
			Expect(plans[0].Status).To(Equal(entities.SubscriptionFree))
			Expect(plans[0].PriceID).To(BeEmpty())
			Expect(plans[1].PriceID).To(Equal("price_lite"))
			Expect(plans[2].PriceID).To(Equal("price_pro"))
		})
	})
})
