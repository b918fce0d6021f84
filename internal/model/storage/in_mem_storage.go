package storage

import (
	"context"
	"sort"
	"sync"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/entity/user"
	"max.ks1230/fintrack/internal/model/customerr"
)

// InMemStorage mirrors the postgres gateway semantics on plain maps.
// It backs tests and local runs without a configured database.
type InMemStorage struct {
	mu           sync.Mutex
	users        map[int64]user.User
	records      map[int64]record.Record
	nextUserID   int64
	nextRecordID int64
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		users:   make(map[int64]user.User),
		records: make(map[int64]record.Record),
	}
}

func (s *InMemStorage) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.User{}, &customerr.ConflictError{Field: "email"}
		}
		if existing.Username == u.Username {
			return user.User{}, &customerr.ConflictError{Field: "username"}
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	s.users[u.ID] = u
	return u, nil
}

func (s *InMemStorage) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, &customerr.NotFoundError{Kind: "user", Key: username}
}

func (s *InMemStorage) CreateRecord(_ context.Context, rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(rec), nil
}

func (s *InMemStorage) CreateRecords(_ context.Context, recs []record.Record) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		res = append(res, s.insertLocked(rec))
	}
	return res, nil
}

func (s *InMemStorage) insertLocked(rec record.Record) record.Record {
	s.nextRecordID++
	rec.ID = s.nextRecordID
	s.records[rec.ID] = rec
	return rec
}

func (s *InMemStorage) GetRecordByID(_ context.Context, id, ownerID int64) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return record.Record{}, recordNotFound(id)
	}
	return rec, nil
}

func (s *InMemStorage) GetUserRecords(_ context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]record.Record, 0)
	for _, rec := range s.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if typeFilter != nil && rec.TypeOperation != *typeFilter {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (s *InMemStorage) UpdateRecord(_ context.Context, rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return record.Record{}, recordNotFound(rec.ID)
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *InMemStorage) DeleteRecord(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return recordNotFound(id)
	}
	delete(s.records, id)
	return nil
}
