package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// VerificationRecord marks a successful identity check for a student on an
// exam. Session creation requires a fresh record.
type VerificationRecord struct {
	StudentID  uuid.UUID
	ExamID     uint
	Confidence float64
	VerifiedAt time.Time
}

// VerificationRepository keeps verification results in process memory with a
// short TTL; a stale verification must not open a session hours later.
type VerificationRepository struct {
	cache *cache.Cache
}

func NewVerificationRepository(ttl time.Duration) *VerificationRepository {
	return &VerificationRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func key(studentID uuid.UUID, examID uint) string {
	return fmt.Sprintf("%s:%d", studentID, examID)
}

func (r *VerificationRepository) Save(record VerificationRecord) {
	r.cache.Set(key(record.StudentID, record.ExamID), record, cache.DefaultExpiration)
}

func (r *VerificationRepository) Get(studentID uuid.UUID, examID uint) (VerificationRecord, bool) {
	if x, found := r.cache.Get(key(studentID, examID)); found {
		return x.(VerificationRecord), true
	}
	return VerificationRecord{}, false
}

// Consume removes the record so one verification opens at most one session.
func (r *VerificationRepository) Consume(studentID uuid.UUID, examID uint) {
	r.cache.Delete(key(studentID, examID))
}
