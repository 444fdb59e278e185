// Package memory keeps verification state in process memory. It serves
// single instance deployments and tests; every method holds one mutex, so
// each call is atomic.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type slotKey struct {
	kind       entity.Kind
	subjectKey int64
}

type Store struct {
	mu       sync.Mutex
	slots    map[slotKey]entity.Slot
	attempts map[int64]entity.Attempt
	accounts map[int64]entity.Account
}

func NewStore() *Store {
	return &Store{
		slots:    make(map[slotKey]entity.Slot),
		attempts: make(map[int64]entity.Attempt),
		accounts: make(map[int64]entity.Account),
	}
}

func (s *Store) GetSlot(_ context.Context, kind entity.Kind, subjectKey int64) (*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotKey{kind, subjectKey}]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &slot, nil
}

func (s *Store) UpsertSlot(_ context.Context, in entity.UpsertSlot) (*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{in.Kind, in.SubjectKey}
	sentAt := in.SentAt

	slot := s.slots[key]
	slot.Kind = in.Kind
	slot.SubjectKey = in.SubjectKey
	slot.CodeHash = in.CodeHash
	slot.Target = in.Target
	slot.ValidUntil = in.ValidUntil
	slot.Verified = false
	slot.CodesSentCount++
	slot.LastCodeSent = &sentAt
	s.slots[key] = slot

	return &slot, nil
}

// MarkSlotVerified returns the consumed slot, or nil when the code does not
// confirm it.
func (s *Store) MarkSlotVerified(_ context.Context, kind entity.Kind, subjectKey int64, codeHash string, now time.Time) (*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{kind, subjectKey}
	slot, ok := s.slots[key]
	if !ok || !slot.Confirmable(codeHash, now) {
		return nil, nil
	}

	slot.Verified = true
	s.slots[key] = slot
	return &slot, nil
}

func (s *Store) GetAttempt(_ context.Context, id int64) (*entity.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &a, nil
}

// CreateAttempt inserts a pending attempt, or returns ErrConflict while
// another unpromoted attempt holds the phone number.
func (s *Store) CreateAttempt(_ context.Context, in entity.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attempts[in.ID]; ok {
		return goerror.ErrConflict
	}
	for _, a := range s.attempts {
		if a.PhoneNumber == in.PhoneNumber && !a.IsPromoted() {
			return goerror.ErrConflict
		}
	}

	s.attempts[in.ID] = in
	return nil
}

func (s *Store) DeleteStaleAttempts(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, a := range s.attempts {
		if a.IsPromoted() || !a.CreatedAt.Before(before) {
			continue
		}
		delete(s.attempts, id)
		delete(s.slots, slotKey{entity.KindPhoneSignup, id})
		n++
	}
	return n, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) AccountPhoneExists(_ context.Context, phone string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phoneTaken(phone, exceptID), nil
}

func (s *Store) AccountEmailExists(_ context.Context, email string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.emailTaken(email, exceptID), nil
}

// PromoteAttempt creates the account and stamps the attempt. The phone
// uniqueness check and the insert share the lock.
func (s *Store) PromoteAttempt(_ context.Context, attemptID int64, acc entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[attemptID]
	if !ok {
		return goerror.ErrNotFound
	}
	slot, ok := s.slots[slotKey{entity.KindPhoneSignup, attemptID}]
	if a.IsPromoted() || !ok || !slot.Verified || s.phoneTaken(acc.PhoneNumber, 0) {
		return goerror.ErrConflict
	}

	promotedAt := acc.CreatedAt
	a.PromotedAt = &promotedAt
	s.attempts[attemptID] = a
	s.accounts[acc.ID] = acc
	return nil
}

func (s *Store) UpdateAccountProfile(_ context.Context, in entity.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[in.AccountID]
	if !ok {
		return goerror.ErrNotFound
	}
	if s.emailTaken(in.Email, acc.ID) {
		return goerror.ErrConflict
	}

	if acc.Email != in.Email {
		acc.EmailVerifiedAt = nil
	}
	acc.Name = in.Name
	acc.Email = in.Email
	acc.UpdatedAt = in.UpdatedAt
	s.accounts[acc.ID] = acc
	return nil
}

// MarkAccountEmailVerified fails with ErrNotFound when the account email is
// no longer email.
func (s *Store) MarkAccountEmailVerified(_ context.Context, id int64, email string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok || acc.Email != email {
		return goerror.ErrNotFound
	}

	acc.EmailVerifiedAt = &now
	acc.UpdatedAt = now
	s.accounts[id] = acc
	return nil
}

func (s *Store) UpdateAccountPhone(_ context.Context, id int64, phone string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return goerror.ErrNotFound
	}
	if s.phoneTaken(phone, id) {
		return goerror.ErrConflict
	}

	acc.PhoneNumber = phone
	acc.UpdatedAt = now
	s.accounts[id] = acc
	return nil
}

func (s *Store) UpdateAccountEmail(_ context.Context, id int64, email string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return goerror.ErrNotFound
	}
	if s.emailTaken(email, id) {
		return goerror.ErrConflict
	}

	acc.Email = email
	acc.EmailVerifiedAt = &now
	acc.UpdatedAt = now
	s.accounts[id] = acc
	return nil
}

// PutAccount seeds an account. The HTTP surface never creates accounts
// outside promotion; tests and fixtures do.
func (s *Store) PutAccount(acc entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acc.ID] = acc
}

func (s *Store) phoneTaken(phone string, exceptID int64) bool {
	for id, acc := range s.accounts {
		if id != exceptID && acc.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (s *Store) emailTaken(email string, exceptID int64) bool {
	if email == "" {
		return false
	}
	for id, acc := range s.accounts {
		if id != exceptID && strings.EqualFold(acc.Email, email) {
			return true
		}
	}
	return false
}
