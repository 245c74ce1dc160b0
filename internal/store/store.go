package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"mailsift/internal/models"
)

// Store is a JSON-file-backed collection of Email records keyed by the
// provider-assigned message id. Every mutation rewrites the whole file before
// it is acknowledged. Safe for concurrent use within one process; the backing
// file still assumes a single writer process. Queries return copies, so
// results never alias records a later mutation updates.
type Store struct {
	path   string
	logger zerolog.Logger

	mu     sync.RWMutex
	emails []*models.Email
	byID   map[string]*models.Email
}

// Open loads the collection from path. A missing file starts an empty
// collection; an unreadable or corrupt file is logged and also starts empty,
// so opening never fails.
func Open(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		byID:   make(map[string]*models.Email),
	}

	if err := s.load(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Could not load email database, starting empty")
		s.emails = nil
		s.byID = make(map[string]*models.Email)
	} else {
		logger.Info().Int("emails", len(s.emails)).Str("path", path).Msg("Email database loaded")
	}

	return s
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Str("path", s.path).Msg("Creating new email database")
		return nil
	}
	if err != nil {
		return &PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	var emails []*models.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return &PersistenceError{Op: "decode", Path: s.path, Err: err}
	}

	s.emails = emails
	for _, email := range emails {
		s.byID[email.ID] = email
	}
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.emails, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Insert adds an email on first sight of its id, assigning a surrogate key
// and creation timestamp and persisting before returning. Inserting an id
// that already exists is a no-op returning the existing surrogate key. When
// the file write fails the record is still kept in memory and the surrogate
// key is returned along with a *PersistenceError.
func (s *Store) Insert(email *models.Email) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[email.ID]; ok {
		s.logger.Debug().Str("email_id", email.ID).Msg("Email already stored, skipping")
		return existing.DBID, nil
	}

	email.DBID = uuid.NewString()
	email.CreatedAt = time.Now().UTC()
	email.Processed = false
	email.AIAnalysis = nil
	email.ProcessedAt = nil

	// Keep an own copy so the caller cannot mutate stored state afterwards.
	stored := *email
	s.emails = append(s.emails, &stored)
	s.byID[stored.ID] = &stored

	if err := s.save(); err != nil {
		s.logger.Error().Err(err).Str("email_id", email.ID).Msg("Failed to persist inserted email")
		return email.DBID, err
	}

	s.logger.Info().Str("email_id", email.ID).Str("subject", email.Subject).Msg("Email stored")
	return email.DBID, nil
}

// Get returns a copy of the record for the given provider id.
func (s *Store) Get(id string) (*models.Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return copyEmail(email), true
}

// Len returns the number of stored emails.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.emails)
}

// MarkProcessed flags the email as processed, attaches the analysis payload
// and stamps the processing time. Re-marking an already processed email
// overwrites the payload and timestamp. Returns false and ErrNotFound when
// the id is unknown, in which case nothing is modified.
func (s *Store) MarkProcessed(id string, analysis json.RawMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.byID[id]
	if !ok {
		return false, fmt.Errorf("mark processed %s: %w", id, ErrNotFound)
	}

	now := time.Now().UTC()
	email.Processed = true
	email.AIAnalysis = analysis
	email.ProcessedAt = &now

	if err := s.save(); err != nil {
		s.logger.Error().Err(err).Str("email_id", id).Msg("Failed to persist processed flag")
		return true, err
	}

	s.logger.Info().Str("email_id", id).Msg("Email marked as processed")
	return true, nil
}

// Unprocessed returns emails not yet processed, most recently stored first.
func (s *Store) Unprocessed(limit int) []*models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var unprocessed []*models.Email
	for _, email := range s.emails {
		if !email.Processed {
			unprocessed = append(unprocessed, copyEmail(email))
		}
	}
	sortByCreatedAtDesc(unprocessed)
	return truncate(unprocessed, limit)
}

// Recent returns the most recently stored emails.
func (s *Store) Recent(limit int) []*models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]*models.Email, len(s.emails))
	for i, email := range s.emails {
		recent[i] = copyEmail(email)
	}
	sortByCreatedAtDesc(recent)
	return truncate(recent, limit)
}

// Thread returns all emails sharing threadID in chronological order.
func (s *Store) Thread(threadID string) []*models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var thread []*models.Email
	for _, email := range s.emails {
		if email.ThreadID == threadID {
			thread = append(thread, copyEmail(email))
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread
}

// Search returns emails whose subject, sender, snippet or text body contains
// the term under Unicode case folding, most recently stored first.
func (s *Store) Search(term string, limit int) []*models.Email {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	fold := cases.Fold()
	needle := fold.String(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Email
	for _, email := range s.emails {
		haystack := fold.String(strings.Join([]string{
			email.Subject,
			email.Sender,
			email.Snippet,
			email.BodyText,
		}, "\n"))
		if strings.Contains(haystack, needle) {
			matches = append(matches, copyEmail(email))
		}
	}
	sortByCreatedAtDesc(matches)
	return truncate(matches, limit)
}

// Stats aggregates counts and the creation-time range of the collection.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{TotalEmails: len(s.emails)}

	senders := make(map[string]struct{})
	for _, email := range s.emails {
		if email.Processed {
			stats.ProcessedEmails++
		}
		if email.SenderEmail != "" {
			senders[email.SenderEmail] = struct{}{}
		}
		if stats.OldestEmailDate == nil || email.CreatedAt.Before(*stats.OldestEmailDate) {
			created := email.CreatedAt
			stats.OldestEmailDate = &created
		}
		if stats.NewestEmailDate == nil || email.CreatedAt.After(*stats.NewestEmailDate) {
			created := email.CreatedAt
			stats.NewestEmailDate = &created
		}
	}

	stats.UnprocessedEmails = stats.TotalEmails - stats.ProcessedEmails
	stats.UniqueSenders = len(senders)
	return stats
}

// Close flushes the collection to the backing file. Safe to call more than
// once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to flush email database on close")
		return err
	}
	s.logger.Info().Int("emails", len(s.emails)).Msg("Email database saved")
	return nil
}

// copyEmail shallow-copies a record; the caller gets its own struct whose
// flag, analysis and timestamp fields later mutations cannot touch.
func copyEmail(email *models.Email) *models.Email {
	copied := *email
	return &copied
}

func sortByCreatedAtDesc(emails []*models.Email) {
	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].CreatedAt.After(emails[j].CreatedAt)
	})
}

func truncate(emails []*models.Email, limit int) []*models.Email {
	if limit > 0 && len(emails) > limit {
		return emails[:limit]
	}
	return emails
}
