package service_test

import (
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/testsuite"
)

type BookingSuite struct {
	testsuite.BaseSuite

	users    repository.UserRepository
	listings repository.ListingRepository
	bookings repository.BookingRepository

	svc service.BookingService
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *BookingSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *BookingSuite) SetupTest() {
	s.BaseSuite.TruncateTable("users")

	logger := zap.NewNop()

	s.users = repository.NewUserRepository(s.DbPool, logger)
	s.listings = repository.NewListingRepository(s.DbPool, logger)
	s.bookings = repository.NewBookingRepository(s.DbPool, logger)

	s.svc = service.NewBookingService(s.bookings, s.listings, logger)
}

func (s *BookingSuite) seedListing() (*domain.User, *domain.Listing) {
	user := &domain.User{
		Email:     "guest@example.com",
		Password:  "hash",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	}
	s.Require().NoError(s.users.Create(s.Ctx, user))

	listing := &domain.Listing{
		OwnerID:       user.ID,
		Title:         "Lakeside Cottage",
		Slug:          "lakeside-cottage-abc123",
		Location:      "Bahir Dar",
		PricePerNight: 500,
	}
	s.Require().NoError(s.listings.Create(s.Ctx, listing))

	return user, listing
}

func (s *BookingSuite) TestCreate_TotalIsNightsTimesPrice() {
	user, listing := s.seedListing()

	booking, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: listing.Slug,
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Require().Equal(2000.0, booking.TotalPrice)
	s.Require().Equal(domain.BookingStatusPending, booking.Status)
}

func (s *BookingSuite) TestCreate_RejectsInvertedDates() {
	user, listing := s.seedListing()

	_, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: listing.Slug,
		StartDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().ErrorIs(err, service.ErrInvalidDates)
}

func (s *BookingSuite) TestCreate_UnknownListing() {
	user, _ := s.seedListing()

	_, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: "no-such-listing",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().ErrorIs(err, service.ErrListingNotFound)
}

func (s *BookingSuite) TestCancel_PendingBooking() {
	user, listing := s.seedListing()

	booking, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: listing.Slug,
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	cancelled, err := s.svc.Cancel(s.Ctx, user.ID, booking.ID)
	s.Require().NoError(err)
	s.Require().Equal(domain.BookingStatusCancelled, cancelled.Status)
}

func (s *BookingSuite) TestCancel_AlreadyCancelled() {
	user, listing := s.seedListing()

	booking, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: listing.Slug,
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	_, err = s.svc.Cancel(s.Ctx, user.ID, booking.ID)
	s.Require().NoError(err)

	_, err = s.svc.Cancel(s.Ctx, user.ID, booking.ID)
	s.Require().ErrorIs(err, service.ErrBookingNotCancellable)
}

func (s *BookingSuite) TestCancel_ForeignBooking() {
	user, listing := s.seedListing()

	booking, err := s.svc.Create(s.Ctx, user.ID, service.CreateBookingInput{
		ListingSlug: listing.Slug,
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	stranger := &domain.User{
		Email:     "stranger@example.com",
		Password:  "hash",
		FirstName: "Sara",
		LastName:  "Bekele",
	}
	s.Require().NoError(s.users.Create(s.Ctx, stranger))

	_, err = s.svc.Cancel(s.Ctx, stranger.ID, booking.ID)
	s.Require().ErrorIs(err, service.ErrBookingNotFound)
}
