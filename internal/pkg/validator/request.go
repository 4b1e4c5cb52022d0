package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/assistant-backend/internal/entity"
)

// ValidateQuery validates QueryRequest
func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		return fmt.Errorf("%w: query longer than %d characters", entity.ErrInvalidParameter, MaxQueryLength)
	}
	if req.MaxResults < 0 || req.MaxResults > MaxResultsCap {
		return fmt.Errorf("%w: max_results must be between 0 and %d", entity.ErrInvalidParameter, MaxResultsCap)
	}
	if req.SessionID != nil && strings.TrimSpace(*req.SessionID) == "" {
		return fmt.Errorf("%w: session_id must not be blank", entity.ErrInvalidParameter)
	}

	return nil
}

func (v *Validator) ValidateCreateSession(req *entity.CreateSessionRequest) error {
	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", entity.ErrInvalidParameter, MaxTitleLength)
	}
	return nil
}

func (v *Validator) ValidateUpdateSession(req *entity.UpdateSessionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", entity.ErrInvalidParameter, MaxTitleLength)
	}
	return nil
}
