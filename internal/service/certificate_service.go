package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/observability"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// CertificateIssuer is the idempotent issuance collaborator: it returns an
// existing certificate unchanged or creates exactly one new record.
type CertificateIssuer interface {
	EnsureCertificate(ctx context.Context, studentID, courseID uint) (models.IssuedCertificate, bool, error)
}

// CertificateService adds query operations on top of issuance.
type CertificateService interface {
	CertificateIssuer
	ListByStudent(ctx context.Context, studentID uint) ([]dto.CertificateResponse, error)
	GetForCourse(ctx context.Context, studentID, courseID uint) (dto.CertificateResponse, bool, error)
}

type certificateService struct {
	repo        repository.CertificateRepository
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	now         func() time.Time
}

type certificateIssuedEvent struct {
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	SerialNumber string    `json:"serial_number"`
	IssuedAt     time.Time `json:"issued_at"`
}

// NewCertificateService constructs the certificate issuer. natsConn may be
// nil; event publication is then skipped.
func NewCertificateService(repo repository.CertificateRepository, natsConn *nats.Conn, natsSubject string, logger zerolog.Logger) CertificateService {
	return &certificateService{
		repo:        repo,
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "certificate_service").Logger(),
		now:         time.Now,
	}
}

// EnsureCertificate is check-then-act against the idempotency record: an
// existing certificate for the pair short-circuits before any side effect.
// created reports whether this call issued a new certificate.
func (s *certificateService) EnsureCertificate(ctx context.Context, studentID, courseID uint) (models.IssuedCertificate, bool, error) {
	existing, err := s.repo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !repository.IsNotFound(err) {
		return models.IssuedCertificate{}, false, err
	}

	certificate := models.IssuedCertificate{
		StudentID:    studentID,
		CourseID:     courseID,
		SerialNumber: uuid.NewString(),
		IssuedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, &certificate); err != nil {
		// A concurrent session may have won the unique-index race; the pair
		// still ends up with exactly one certificate.
		if winner, lookupErr := s.repo.GetByStudentAndCourse(ctx, studentID, courseID); lookupErr == nil {
			return winner, false, nil
		}
		return models.IssuedCertificate{}, false, err
	}

	observability.CertificatesIssuedTotal().Inc()
	s.publishIssued(certificate)

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("course_id", courseID).
		Str("serial_number", certificate.SerialNumber).
		Msg("certificate issued")

	return certificate, true, nil
}

func (s *certificateService) publishIssued(certificate models.IssuedCertificate) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(certificateIssuedEvent{
		StudentID:    certificate.StudentID,
		CourseID:     certificate.CourseID,
		SerialNumber: certificate.SerialNumber,
		IssuedAt:     certificate.IssuedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode certificate event")
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish certificate event")
	}
}

func (s *certificateService) ListByStudent(ctx context.Context, studentID uint) ([]dto.CertificateResponse, error) {
	certificates, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewCertificateResponseSlice(certificates), nil
}

func (s *certificateService) GetForCourse(ctx context.Context, studentID, courseID uint) (dto.CertificateResponse, bool, error) {
	certificate, err := s.repo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.CertificateResponse{}, false, nil
		}
		return dto.CertificateResponse{}, false, err
	}

	return dto.NewCertificateResponse(certificate), true, nil
}
