package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/timeslot"
)

// memStore is an in-memory implementation of every store interface. One
// mutex guards all state so the settlement methods are atomic, like their
// SQL counterparts.
type memStore struct {
	mu            sync.Mutex
	customers     map[int64]*models.Customer
	stations      map[int64]*models.GamingStation
	games         map[int64]*models.Game
	bookings      map[int64]*models.Booking
	cards         map[int64]*models.MembershipCard
	tournaments   map[int64]*models.Tournament
	notifications map[int64]*models.Notification
	participants  []*models.TournamentParticipant
	transactions  []*models.Transaction
	nextID        int64

	// conflictErr forces HasConflict to fail, simulating a lost store.
	conflictErr error
}

func newMemStore() *memStore {
	return &memStore{
		customers:     make(map[int64]*models.Customer),
		stations:      make(map[int64]*models.GamingStation),
		games:         make(map[int64]*models.Game),
		bookings:      make(map[int64]*models.Booking),
		cards:         make(map[int64]*models.MembershipCard),
		tournaments:   make(map[int64]*models.Tournament),
		notifications: make(map[int64]*models.Notification),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addCustomer(balance int64) *models.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Customer{
		CustomerID: m.id(),
		FirstName:  "Test",
		LastName:   "Customer",
		Balance:    decimal.NewFromInt(balance),
	}
	m.customers[c.CustomerID] = c
	return c
}

func (m *memStore) addStation(rate int64, status string) *models.GamingStation {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &models.GamingStation{
		StationID:  m.id(),
		Name:       "Station",
		Type:       models.StationPC,
		HourlyRate: decimal.NewFromInt(rate),
		Status:     status,
	}
	m.stations[st.StationID] = st
	return st
}

func (m *memStore) addCard(customerID int64, tier string, expiry time.Time, active bool) *models.MembershipCard {
	m.mu.Lock()
	defer m.mu.Unlock()
	card := &models.MembershipCard{
		CardID:     m.id(),
		CustomerID: customerID,
		CardNumber: "MC-TEST",
		Tier:       tier,
		ExpiryDate: expiry,
		IsActive:   active,
	}
	m.cards[customerID] = card
	return card
}

func (m *memStore) addGame(title string) *models.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &models.Game{GameID: m.id(), Title: title}
	m.games[g.GameID] = g
	return g
}

func (m *memStore) addTournament(fee int64, max, current int, deadline time.Time, status string) *models.Tournament {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &models.Tournament{
		TournamentID:    m.id(),
		Name:            "Cup",
		EntryFee:        decimal.NewFromInt(fee),
		MaxParticipants: max,
		Participants:    current,
		Deadline:        deadline,
		Status:          status,
	}
	m.tournaments[t.TournamentID] = t
	return t
}

func (m *memStore) balance(customerID int64) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[customerID].Balance
}

func (m *memStore) appendTxn(customerID int64, txnType string, amount decimal.Decimal, method, reference string) *models.Transaction {
	t := &models.Transaction{
		TransactionID: m.id(),
		CustomerID:    customerID,
		Type:          txnType,
		Amount:        amount,
		Method:        method,
		ReferenceID:   reference,
		CreatedAt:     time.Now(),
	}
	m.transactions = append(m.transactions, t)
	return t
}

// CustomerStore

func (m *memStore) Create(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CustomerID = m.id()
	m.customers[c.CustomerID] = c
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) List(ctx context.Context) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.CustomerID] = c
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}

func (m *memStore) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	term := strings.ToLower(name)
	var out []models.Customer
	for _, c := range m.customers {
		full := strings.ToLower(c.FirstName + " " + c.LastName)
		if strings.Contains(full, term) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// stationStore wraps memStore because CustomerStore and StationStore share
// method names with different signatures in Go's eyes only through distinct
// receivers.
type stationStore struct{ m *memStore }

func (s stationStore) Create(ctx context.Context, st *models.GamingStation) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	st.StationID = s.m.id()
	s.m.stations[st.StationID] = st
	return nil
}

func (s stationStore) GetByID(ctx context.Context, id int64) (*models.GamingStation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	st, ok := s.m.stations[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s stationStore) List(ctx context.Context) ([]models.GamingStation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.GamingStation
	for _, st := range s.m.stations {
		out = append(out, *st)
	}
	return out, nil
}

func (s stationStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.stations[id]; ok {
		st.Status = status
	}
	return nil
}

func (s stationStore) Delete(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.stations, id)
	return nil
}

type gameStore struct{ m *memStore }

func (g gameStore) Create(ctx context.Context, game *models.Game) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	game.GameID = g.m.id()
	g.m.games[game.GameID] = game
	return nil
}

func (g gameStore) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	game, ok := g.m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *game
	return &cp, nil
}

func (g gameStore) List(ctx context.Context) ([]models.Game, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	var out []models.Game
	for _, game := range g.m.games {
		out = append(out, *game)
	}
	return out, nil
}

func (g gameStore) SearchByTitle(ctx context.Context, title string) ([]models.Game, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	term := strings.ToLower(title)
	var out []models.Game
	for _, game := range g.m.games {
		if strings.Contains(strings.ToLower(game.Title), term) {
			out = append(out, *game)
		}
	}
	return out, nil
}

// bookingStore

type bookingStore struct{ m *memStore }

func (b bookingStore) HasConflict(ctx context.Context, stationID int64, date time.Time, start, end timeslot.TimeOfDay, excludeID int64) (bool, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	if b.m.conflictErr != nil {
		return false, b.m.conflictErr
	}
	for _, bk := range b.m.bookings {
		if bk.StationID != stationID || !timeslot.SameDate(bk.Date, date) {
			continue
		}
		if !bk.IsActive() || bk.BookingID == excludeID {
			continue
		}
		if timeslot.Overlaps(bk.StartTime, bk.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (b bookingStore) CreateSettled(ctx context.Context, booking *models.Booking, reference string) (*models.Transaction, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()

	c, ok := b.m.customers[booking.CustomerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if c.Balance.LessThan(booking.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	c.Balance = c.Balance.Sub(booking.Amount)
	booking.BookingID = b.m.id()
	cp := *booking
	b.m.bookings[booking.BookingID] = &cp

	return b.m.appendTxn(booking.CustomerID, models.TxnBookingPayment,
		booking.Amount.Neg(), models.PayAccountBalance, reference), nil
}

func (b bookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	bk, ok := b.m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *bk
	return &cp, nil
}

func (b bookingStore) ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.m.bookings {
		if bk.CustomerID == customerID {
			out = append(out, *bk)
		}
	}
	return out, nil
}

func (b bookingStore) ListUpcomingByCustomer(ctx context.Context, customerID int64, now time.Time) ([]models.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.m.bookings {
		if bk.CustomerID != customerID || !bk.IsActive() {
			continue
		}
		if timeslot.SameDate(bk.Date, now) {
			if bk.EndTime <= timeslot.FromClock(now) {
				continue
			}
		} else if bk.Date.Before(now) {
			continue
		}
		out = append(out, *bk)
	}
	return out, nil
}

func (b bookingStore) ListByStationDate(ctx context.Context, stationID int64, date time.Time) ([]models.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.m.bookings {
		if bk.StationID == stationID && timeslot.SameDate(bk.Date, date) {
			out = append(out, *bk)
		}
	}
	return out, nil
}

func (b bookingStore) CancelWithRefund(ctx context.Context, id int64, reference string) (*models.Booking, *models.Transaction, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()

	bk, ok := b.m.bookings[id]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}
	if !bk.IsActive() {
		cp := *bk
		return &cp, nil, nil
	}

	bk.Status = models.BookingCancelled
	c := b.m.customers[bk.CustomerID]
	c.Balance = c.Balance.Add(bk.Amount)

	refund := b.m.appendTxn(bk.CustomerID, models.TxnRefund, bk.Amount, models.PayAccountBalance, reference)
	cp := *bk
	return &cp, refund, nil
}

func (b bookingStore) StartDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (b bookingStore) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (b bookingStore) ExpireNoShows(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// membershipStore

type membershipStore struct{ m *memStore }

func (s membershipStore) IssueSettled(ctx context.Context, card *models.MembershipCard, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	amount := fee
	if method == models.PayAccountBalance && fee.IsPositive() {
		c := s.m.customers[card.CustomerID]
		if c.Balance.LessThan(fee) {
			return nil, apperrors.ErrInsufficientFunds
		}
		c.Balance = c.Balance.Sub(fee)
		amount = fee.Neg()
	}

	card.CardID = s.m.id()
	card.IsActive = true
	cp := *card
	s.m.cards[card.CustomerID] = &cp

	if !fee.IsPositive() {
		return nil, nil
	}
	return s.m.appendTxn(card.CustomerID, models.TxnMembershipFee, amount, method, reference), nil
}

func (s membershipStore) GetByCustomer(ctx context.Context, customerID int64) (*models.MembershipCard, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	card, ok := s.m.cards[customerID]
	if !ok {
		return nil, nil
	}
	cp := *card
	return &cp, nil
}

func (s membershipStore) RenewSettled(ctx context.Context, card *models.MembershipCard, newExpiry time.Time, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	amount := fee
	if method == models.PayAccountBalance && fee.IsPositive() {
		c := s.m.customers[card.CustomerID]
		if c.Balance.LessThan(fee) {
			return nil, apperrors.ErrInsufficientFunds
		}
		c.Balance = c.Balance.Sub(fee)
		amount = fee.Neg()
	}

	for _, stored := range s.m.cards {
		if stored.CardID == card.CardID {
			stored.ExpiryDate = newExpiry
			stored.IsActive = true
		}
	}
	card.ExpiryDate = newExpiry
	card.IsActive = true

	if !fee.IsPositive() {
		return nil, nil
	}
	return s.m.appendTxn(card.CustomerID, models.TxnMembershipFee, amount, method, reference), nil
}

func (s membershipStore) Deactivate(ctx context.Context, cardID int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, card := range s.m.cards {
		if card.CardID == cardID {
			card.IsActive = false
		}
	}
	return nil
}

// ledgerStore

type ledgerStore struct{ m *memStore }

func (l ledgerStore) Deposit(ctx context.Context, customerID int64, amount decimal.Decimal, method, reference string) (*models.Transaction, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	c, ok := l.m.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c.Balance = c.Balance.Add(amount)
	return l.m.appendTxn(customerID, models.TxnDeposit, amount, method, reference), nil
}

func (l ledgerStore) GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	return l.m.balance(customerID), nil
}

func (l ledgerStore) SumByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	sum := decimal.Zero
	for _, t := range l.m.transactions {
		if t.CustomerID != customerID {
			continue
		}
		if t.Type == models.TxnDeposit || t.Method == models.PayAccountBalance {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (l ledgerStore) ListByCustomer(ctx context.Context, customerID int64) ([]models.Transaction, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	var out []models.Transaction
	for _, t := range l.m.transactions {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (l ledgerStore) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	for _, t := range l.m.transactions {
		if t.ReferenceID == reference {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

// tournamentStore

type tournamentStore struct{ m *memStore }

func (s tournamentStore) Create(ctx context.Context, t *models.Tournament) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t.TournamentID = s.m.id()
	s.m.tournaments[t.TournamentID] = t
	return nil
}

func (s tournamentStore) GetByID(ctx context.Context, id int64) (*models.Tournament, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tournaments[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s tournamentStore) List(ctx context.Context) ([]models.Tournament, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Tournament
	for _, t := range s.m.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (s tournamentStore) ListUpcoming(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Tournament
	for _, t := range s.m.tournaments {
		if t.Status == models.TournamentCancelled {
			continue
		}
		if t.StartDate.Before(now) && !timeslot.SameDate(t.StartDate, now) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s tournamentStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if t, ok := s.m.tournaments[id]; ok {
		t.Status = status
	}
	return nil
}

func (s tournamentStore) RegisterSettled(ctx context.Context, p *models.TournamentParticipant, fee decimal.Decimal, reference string) (*models.Transaction, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	t, ok := s.m.tournaments[p.TournamentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if t.Status != models.TournamentRegistrationOpen {
		return nil, apperrors.ErrRegistrationClosed
	}
	if t.Participants >= t.MaxParticipants {
		return nil, apperrors.ErrEventFull
	}

	var payment *models.Transaction
	if fee.IsPositive() {
		c := s.m.customers[p.CustomerID]
		if c.Balance.LessThan(fee) {
			return nil, apperrors.ErrInsufficientFunds
		}
		c.Balance = c.Balance.Sub(fee)
		payment = s.m.appendTxn(p.CustomerID, models.TxnTournamentFee, fee.Neg(), models.PayAccountBalance, reference)
	}

	t.Participants++
	p.ParticipantID = s.m.id()
	p.RegisteredAt = time.Now()
	cp := *p
	s.m.participants = append(s.m.participants, &cp)

	return payment, nil
}

func (s tournamentStore) IsRegistered(ctx context.Context, tournamentID, customerID int64) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.participants {
		if p.TournamentID == tournamentID && p.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (s tournamentStore) ListParticipants(ctx context.Context, tournamentID int64) ([]models.TournamentParticipant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.TournamentParticipant
	for _, p := range s.m.participants {
		if p.TournamentID == tournamentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// notificationStore

type notificationStore struct{ m *memStore }

func (s notificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n.NotificationID = s.m.id()
	n.SentAt = time.Now()
	cp := *n
	s.m.notifications[n.NotificationID] = &cp
	return nil
}

func (s notificationStore) ListByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Notification
	for _, n := range s.m.notifications {
		if n.CustomerID == customerID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s notificationStore) ListUnreadByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Notification
	for _, n := range s.m.notifications {
		if n.CustomerID == customerID && !n.IsRead {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s notificationStore) MarkRead(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n, ok := s.m.notifications[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	n.IsRead = true
	return nil
}
