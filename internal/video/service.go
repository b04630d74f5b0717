package video

import (
	"errors"
	"time"

	"campus-connect/internal/config"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrUnavailable = errors.New("video service unavailable")

// Service is the transport collaborator boundary: room allocation on call
// accept and short-lived access grants on join.
type Service interface {
	AllocateRoom() (uuid.UUID, error)
	IssueToken(roomID, userID uuid.UUID) (string, error)
	JoinLink(roomID uuid.UUID) string
}

type RoomClaims struct {
	RoomID uuid.UUID `json:"room_id"`
	UserID uuid.UUID `json:"user_id"`

	jwtlib.RegisteredClaims
}

// TokenService mints rooms locally and signs HMAC access grants the media
// edge verifies with the shared secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewTokenService(cfg config.VideoConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (s *TokenService) AllocateRoom() (uuid.UUID, error) {
	if s == nil || len(s.secret) == 0 {
		return uuid.Nil, ErrUnavailable
	}
	return uuid.New(), nil
}

func (s *TokenService) IssueToken(roomID, userID uuid.UUID) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrUnavailable
	}
	if roomID == uuid.Nil || userID == uuid.Nil {
		return "", ErrUnavailable
	}

	nowT := s.now().UTC()
	ttl := s.ttl
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	claims := RoomClaims{
		RoomID: roomID,
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(nowT),
			ExpiresAt: jwtlib.NewNumericDate(nowT.Add(ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrUnavailable
	}
	return signed, nil
}

func (s *TokenService) JoinLink(roomID uuid.UUID) string {
	return "/calls/rooms/" + roomID.String()
}
