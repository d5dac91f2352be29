package services

import (
	"context"
	"sort"
	"time"

	"bollette/internal/core"
)

// memStore is an in-memory stand-in for the SQLite repository, shared
// by the service tests.
type memStore struct {
	bills    map[int64]core.Bill
	payments map[int64]core.Payment

	nextBillID    int64
	nextPaymentID int64

	// error injection
	createPaymentErr error
	failCreateAfter  int // fail CreatePayment once this many have succeeded; -1 disables
	createCount      int
}

func newMemStore() *memStore {
	return &memStore{
		bills:           make(map[int64]core.Bill),
		payments:        make(map[int64]core.Payment),
		failCreateAfter: -1,
	}
}

func (m *memStore) addBill(b core.Bill) core.Bill {
	m.nextBillID++
	b.ID = m.nextBillID
	m.bills[b.ID] = b
	return b
}

func (m *memStore) addPayment(p core.Payment) core.Payment {
	m.nextPaymentID++
	p.ID = m.nextPaymentID
	m.payments[p.ID] = p
	return p
}

func (m *memStore) CreateBill(_ context.Context, b core.Bill) (core.Bill, error) {
	return m.addBill(b), nil
}

func (m *memStore) GetBill(_ context.Context, id int64) (core.Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return core.Bill{}, core.ErrBillNotFound
	}
	return b, nil
}

func (m *memStore) ListBills(_ context.Context) ([]core.Bill, error) {
	bills := make([]core.Bill, 0, len(m.bills))
	for _, b := range m.bills {
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID < bills[j].ID })
	return bills, nil
}

func (m *memStore) ListActiveBills(ctx context.Context) ([]core.Bill, error) {
	all, _ := m.ListBills(ctx)
	active := make([]core.Bill, 0, len(all))
	for _, b := range all {
		if b.Active {
			active = append(active, b)
		}
	}
	return active, nil
}

func (m *memStore) UpdateBill(_ context.Context, b core.Bill) error {
	if _, ok := m.bills[b.ID]; !ok {
		return core.ErrBillNotFound
	}
	m.bills[b.ID] = b
	return nil
}

func (m *memStore) DeleteBill(_ context.Context, id int64) error {
	if _, ok := m.bills[id]; !ok {
		return core.ErrBillNotFound
	}
	delete(m.bills, id)
	for pid, p := range m.payments {
		if p.BillID == id {
			delete(m.payments, pid)
		}
	}
	return nil
}

func (m *memStore) CreatePayment(_ context.Context, p core.Payment) (core.Payment, error) {
	if m.createPaymentErr != nil && m.failCreateAfter >= 0 && m.createCount >= m.failCreateAfter {
		return core.Payment{}, m.createPaymentErr
	}
	m.createCount++
	return m.addPayment(p), nil
}

func (m *memStore) GetPayment(_ context.Context, id int64) (core.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return core.Payment{}, core.ErrPaymentNotFound
	}
	return p, nil
}

func (m *memStore) ListPaymentsByBill(_ context.Context, billID int64) ([]core.Payment, error) {
	return m.selectPayments(func(p core.Payment) bool { return p.BillID == billID }), nil
}

func (m *memStore) ListPaymentsInRange(_ context.Context, from, to time.Time) ([]core.Payment, error) {
	return m.selectPayments(func(p core.Payment) bool { return inRange(p, from, to) }), nil
}

func (m *memStore) BillPaymentExistsInRange(_ context.Context, billID int64, from, to time.Time) (bool, error) {
	for _, p := range m.payments {
		if p.BillID == billID && inRange(p, from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdatePayment(_ context.Context, p core.Payment) error {
	if _, ok := m.payments[p.ID]; !ok {
		return core.ErrPaymentNotFound
	}
	m.payments[p.ID] = p
	return nil
}

func (m *memStore) DeletePayment(_ context.Context, id int64) error {
	if _, ok := m.payments[id]; !ok {
		return core.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *memStore) MarkOverdueBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for id, p := range m.payments {
		if p.Status == core.StatusPending && p.DueDate.Before(cutoff) {
			p.Status = core.StatusOverdue
			m.payments[id] = p
			count++
		}
	}
	return count, nil
}

func (m *memStore) SumByStatusInRange(_ context.Context, from, to time.Time) (map[core.Status]int64, error) {
	sums := make(map[core.Status]int64)
	for _, p := range m.payments {
		if inRange(p, from, to) {
			sums[p.Status] += p.Amount.Cents
		}
	}
	return sums, nil
}

func (m *memStore) selectPayments(keep func(core.Payment) bool) []core.Payment {
	payments := []core.Payment{}
	for _, p := range m.payments {
		if keep(p) {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments
}

func inRange(p core.Payment, from, to time.Time) bool {
	return !p.DueDate.Before(from) && p.DueDate.Before(to)
}

// recordingPublisher captures published events; failErr makes every
// publish fail.
type recordingPublisher struct {
	events  []string
	failErr error
}

func (r *recordingPublisher) PublishEvent(_ context.Context, entity string, id int64, action string) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.events = append(r.events, entity+":"+action)
	return nil
}

func activeBill(name string, cents int64, dueDay int) core.Bill {
	return core.Bill{
		Name:     name,
		Category: core.CategoryElectricity,
		Amount:   core.Money{Cents: cents},
		DueDay:   dueDay,
		Active:   true,
	}
}
