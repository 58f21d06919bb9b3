package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadia/internal/clock"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/service"
	"arcadia/internal/timeslot"
)

var testNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// stubStores is a minimal in-memory backing for the handler tests. One
// mutex keeps the settlement paths atomic.
type stubStores struct {
	mu            sync.Mutex
	nextID        int64
	customers     map[int64]*models.Customer
	stations      map[int64]*models.GamingStation
	bookings      map[int64]*models.Booking
	notifications map[int64]*models.Notification
	transactions  []*models.Transaction
}

func newStubStores() *stubStores {
	return &stubStores{
		customers:     make(map[int64]*models.Customer),
		stations:      make(map[int64]*models.GamingStation),
		bookings:      make(map[int64]*models.Booking),
		notifications: make(map[int64]*models.Notification),
	}
}

func (s *stubStores) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *stubStores) addCustomer(balance int64) *models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Customer{CustomerID: s.id(), FirstName: "A", LastName: "B", Balance: decimal.NewFromInt(balance)}
	s.customers[c.CustomerID] = c
	return c
}

func (s *stubStores) addStation(rate int64) *models.GamingStation {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &models.GamingStation{StationID: s.id(), Name: "PC-1", Type: models.StationPC,
		HourlyRate: decimal.NewFromInt(rate), Status: models.StationAvailable}
	s.stations[st.StationID] = st
	return st
}

func (s *stubStores) addNotification(customerID int64, kind, message string) *models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &models.Notification{
		NotificationID: s.id(),
		CustomerID:     customerID,
		Kind:           kind,
		Message:        message,
		SentAt:         testNow,
	}
	s.notifications[n.NotificationID] = n
	return n
}

// CustomerStore

func (s *stubStores) Create(ctx context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.CustomerID = s.id()
	s.customers[c.CustomerID] = c
	return nil
}

func (s *stubStores) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubStores) List(ctx context.Context) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Customer
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubStores) Update(ctx context.Context, c *models.Customer) error { return nil }
func (s *stubStores) Delete(ctx context.Context, id int64) error           { return nil }

func (s *stubStores) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term := strings.ToLower(name)
	var out []models.Customer
	for _, c := range s.customers {
		full := strings.ToLower(c.FirstName + " " + c.LastName)
		if strings.Contains(full, term) {
			out = append(out, *c)
		}
	}
	return out, nil
}

type stubStations struct{ s *stubStores }

func (st stubStations) Create(ctx context.Context, station *models.GamingStation) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	station.StationID = st.s.id()
	st.s.stations[station.StationID] = station
	return nil
}

func (st stubStations) GetByID(ctx context.Context, id int64) (*models.GamingStation, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	station, ok := st.s.stations[id]
	if !ok {
		return nil, nil
	}
	cp := *station
	return &cp, nil
}

func (st stubStations) List(ctx context.Context) ([]models.GamingStation, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var out []models.GamingStation
	for _, station := range st.s.stations {
		out = append(out, *station)
	}
	return out, nil
}

func (st stubStations) UpdateStatus(ctx context.Context, id int64, status string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if station, ok := st.s.stations[id]; ok {
		station.Status = status
	}
	return nil
}

func (st stubStations) Delete(ctx context.Context, id int64) error { return nil }

type stubBookings struct{ s *stubStores }

func (b stubBookings) HasConflict(ctx context.Context, stationID int64, date time.Time, start, end timeslot.TimeOfDay, excludeID int64) (bool, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	for _, bk := range b.s.bookings {
		if bk.StationID == stationID && timeslot.SameDate(bk.Date, date) && bk.IsActive() &&
			bk.BookingID != excludeID && timeslot.Overlaps(bk.StartTime, bk.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (b stubBookings) CreateSettled(ctx context.Context, booking *models.Booking, reference string) (*models.Transaction, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	c := b.s.customers[booking.CustomerID]
	if c.Balance.LessThan(booking.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}
	c.Balance = c.Balance.Sub(booking.Amount)
	booking.BookingID = b.s.id()
	cp := *booking
	b.s.bookings[booking.BookingID] = &cp
	txn := &models.Transaction{TransactionID: b.s.id(), CustomerID: booking.CustomerID,
		Type: models.TxnBookingPayment, Amount: booking.Amount.Neg(),
		Method: models.PayAccountBalance, ReferenceID: reference}
	b.s.transactions = append(b.s.transactions, txn)
	return txn, nil
}

func (b stubBookings) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	bk, ok := b.s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *bk
	return &cp, nil
}

func (b stubBookings) ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.s.bookings {
		if bk.CustomerID == customerID {
			out = append(out, *bk)
		}
	}
	return out, nil
}

func (b stubBookings) ListUpcomingByCustomer(ctx context.Context, customerID int64, now time.Time) ([]models.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.s.bookings {
		if bk.CustomerID == customerID && bk.IsActive() &&
			(timeslot.SameDate(bk.Date, now) || bk.Date.After(now)) {
			out = append(out, *bk)
		}
	}
	return out, nil
}

func (b stubBookings) ListByStationDate(ctx context.Context, stationID int64, date time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (b stubBookings) CancelWithRefund(ctx context.Context, id int64, reference string) (*models.Booking, *models.Transaction, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	bk, ok := b.s.bookings[id]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}
	if !bk.IsActive() {
		cp := *bk
		return &cp, nil, nil
	}
	bk.Status = models.BookingCancelled
	c := b.s.customers[bk.CustomerID]
	c.Balance = c.Balance.Add(bk.Amount)
	refund := &models.Transaction{TransactionID: b.s.id(), CustomerID: bk.CustomerID,
		Type: models.TxnRefund, Amount: bk.Amount, Method: models.PayAccountBalance, ReferenceID: reference}
	b.s.transactions = append(b.s.transactions, refund)
	cp := *bk
	return &cp, refund, nil
}

func (b stubBookings) StartDue(ctx context.Context, now time.Time) (int64, error)      { return 0, nil }
func (b stubBookings) CompleteDue(ctx context.Context, now time.Time) (int64, error)   { return 0, nil }
func (b stubBookings) ExpireNoShows(ctx context.Context, now time.Time) (int64, error) { return 0, nil }

type stubMemberships struct{}

func (stubMemberships) IssueSettled(ctx context.Context, card *models.MembershipCard, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	return nil, nil
}

func (stubMemberships) GetByCustomer(ctx context.Context, customerID int64) (*models.MembershipCard, error) {
	return nil, nil
}

func (stubMemberships) RenewSettled(ctx context.Context, card *models.MembershipCard, newExpiry time.Time, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	return nil, nil
}

func (stubMemberships) Deactivate(ctx context.Context, cardID int64) error { return nil }

type stubNotifications struct{ s *stubStores }

func (n stubNotifications) Create(ctx context.Context, notif *models.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	notif.NotificationID = n.s.id()
	n.s.notifications[notif.NotificationID] = notif
	return nil
}

func (n stubNotifications) ListByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var out []models.Notification
	for _, notif := range n.s.notifications {
		if notif.CustomerID == customerID {
			out = append(out, *notif)
		}
	}
	return out, nil
}

func (n stubNotifications) ListUnreadByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var out []models.Notification
	for _, notif := range n.s.notifications {
		if notif.CustomerID == customerID && !notif.IsRead {
			out = append(out, *notif)
		}
	}
	return out, nil
}

func (n stubNotifications) MarkRead(ctx context.Context, id int64) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	notif, ok := n.s.notifications[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	notif.IsRead = true
	return nil
}

func setupRouter(stores *stubStores) *gin.Engine {
	gin.SetMode(gin.TestMode)

	bookingSvc := service.NewBookingService(
		stubBookings{stores}, stores, stubStations{stores}, stubMemberships{},
		nil, clock.Fixed(testNow), service.BookingConfig{},
	)
	customerSvc := service.NewCustomerService(stores)
	stationSvc := service.NewStationService(stubStations{stores}, stubBookings{stores}, nil, nil)
	notificationSvc := service.NewNotificationService(stubNotifications{stores}, stores)

	h := &Handlers{services: &service.Services{
		Bookings:      bookingSvc,
		Customers:     customerSvc,
		Stations:      stationSvc,
		Notifications: notificationSvc,
	}}

	r := gin.New()
	api := r.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/availability", h.CheckAvailability)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", h.CreateCustomer)
			customers.GET("/:id", h.GetCustomer)
			customers.GET("/:id/notifications", h.ListNotifications)
		}

		notifications := api.Group("/notifications")
		{
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
		}

		stations := api.Group("/stations")
		{
			stations.POST("", h.CreateStation)
			stations.GET("", h.ListStations)
		}
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(5000)
	station := stores.addStation(2000)
	r := setupRouter(stores)

	w := doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "4000", resp.Amount.String())
	assert.Equal(t, models.BookingConfirmed, resp.Status)
	assert.Equal(t, "09:00", resp.StartTime.String())
}

func TestCreateBookingConflictReturns409(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(100000)
	station := stores.addStation(1000)
	r := setupRouter(stores)

	req := models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	}

	w := doJSON(t, r, "POST", "/api/bookings", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/api/bookings", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingInsufficientFundsReturns402(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(100)
	station := stores.addStation(2000)
	r := setupRouter(stores)

	w := doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(5000)
	station := stores.addStation(2000)
	r := setupRouter(stores)

	// Missing fields fail gin binding.
	w := doJSON(t, r, "POST", "/api/bookings", map[string]interface{}{"customer_id": customer.CustomerID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Inverted interval.
	w = doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "11:00",
		EndTime:    "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Past slot.
	w = doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-10",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown customer.
	w = doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: 404,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(5000)
	station := stores.addStation(2000)
	r := setupRouter(stores)

	w := doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, "PATCH", "/api/bookings/cancel", models.CancelBookingRequest{BookingID: created.BookingID})
	assert.Equal(t, http.StatusOK, w.Code)

	var cancelled models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	// Unknown booking.
	w = doJSON(t, r, "PATCH", "/api/bookings/cancel", models.CancelBookingRequest{BookingID: 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(100000)
	station := stores.addStation(1000)
	r := setupRouter(stores)

	w := doJSON(t, r, "GET", "/api/bookings/availability?station_id=2&date=2026-01-16&start_time=09:00&end_time=11:00", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var avail models.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.True(t, avail.Available)

	w = doJSON(t, r, "POST", "/api/bookings", models.CreateBookingRequest{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       "2026-01-16",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/bookings/availability?station_id=2&date=2026-01-16&start_time=10:00&end_time=12:00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.False(t, avail.Available)
}

func TestCreateCustomerEndpoint(t *testing.T) {
	stores := newStubStores()
	r := setupRouter(stores)

	w := doJSON(t, r, "POST", "/api/customers", models.CreateCustomerRequest{
		FirstName: "Alikhan",
		LastName:  "Seitov",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	assert.NotZero(t, customer.CustomerID)
	assert.True(t, customer.Balance.IsZero())

	w = doJSON(t, r, "POST", "/api/customers", map[string]string{"first_name": "OnlyFirst"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondErrorStoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused: %w",
		apperrors.ErrStoreUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	stores := newStubStores()
	customer := stores.addCustomer(0)
	first := stores.addNotification(customer.CustomerID, models.EventBookingConfirmed, "Booking confirmed")
	stores.addNotification(customer.CustomerID, models.EventBalanceDeposited, "Deposit received")
	r := setupRouter(stores)

	w := doJSON(t, r, "GET", fmt.Sprintf("/api/customers/%d/notifications", customer.CustomerID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var all []models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	w = doJSON(t, r, "PATCH", fmt.Sprintf("/api/notifications/%d/read", first.NotificationID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/customers/%d/notifications?unread=true", customer.CustomerID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unread []models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unread))
	require.Len(t, unread, 1)
	assert.NotEqual(t, first.NotificationID, unread[0].NotificationID)

	w = doJSON(t, r, "PATCH", "/api/notifications/404/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "GET", "/api/customers/404/notifications", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
