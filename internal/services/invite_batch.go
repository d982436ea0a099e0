package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/validator"
)

var (
	// ErrTooManyInvitees bounds the batch size; wrapped with the configured limit.
	ErrTooManyInvitees = errors.New("invite: too many invitees")
	// ErrEmptyInvitee flags an identifier that is empty after normalization.
	ErrEmptyInvitee = errors.New("invite: invitation entries cannot be empty")
	// ErrInvalidEmailFormat flags an "@"-containing identifier that is not a valid address.
	ErrInvalidEmailFormat = errors.New("invite: provide valid email addresses or usernames for each invitation")
	// ErrInvalidRole flags a structured entry carrying an unknown membership role.
	ErrInvalidRole = errors.New("invite: unknown membership role")
)

// StructuredInvite is an explicit email/role pair supplied in a batch.
type StructuredInvite struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RawInvites models the union accepted by the bulk invite entry point: a
// single free-text field, a list of identifiers, or structured entries.
type RawInvites struct {
	Single     string
	List       []string
	Structured []StructuredInvite
}

// UnmarshalJSON accepts a string, an array of strings, or an array of
// {email, role} objects. Mixed arrays resolve element by element.
func (r *RawInvites) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RawInvites{Single: single}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("invites: expected string or array: %w", err)
	}

	parsed := RawInvites{}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			parsed.List = append(parsed.List, s)
			continue
		}
		var structured StructuredInvite
		if err := json.Unmarshal(item, &structured); err != nil {
			return fmt.Errorf("invites: invalid entry: %w", err)
		}
		parsed.Structured = append(parsed.Structured, structured)
	}

	*r = parsed
	return nil
}

// InviteEntry is one normalized, validated invitation target.
type InviteEntry struct {
	Identifier string
	Role       models.MembershipRole
}

// ParseInviteBatch normalizes, validates, and deduplicates a raw invite
// batch. The resulting order follows first occurrence; duplicates collapse
// silently. Validation happens before any persistence so a failing batch
// produces no writes.
func ParseInviteBatch(raw RawInvites, batchRole string, maxBatch int) ([]InviteEntry, error) {
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatchSize
	}

	// An unknown batch-level role is dropped in favour of the default.
	defaultRole := models.MembershipRoleMember
	if role, ok := models.ParseMembershipRole(batchRole); ok {
		defaultRole = role
	}

	var candidates []InviteEntry

	switch {
	case len(raw.Structured) > 0 || len(raw.List) > 0:
		total := len(raw.List) + len(raw.Structured)
		if total > maxBatch {
			return nil, fmt.Errorf("%w: you are limited to inviting a maximum of %d users at once", ErrTooManyInvitees, maxBatch)
		}

		for _, item := range raw.List {
			identifier, ok := normalizeIdentifier(item)
			if !ok {
				return nil, ErrEmptyInvitee
			}
			candidates = append(candidates, InviteEntry{Identifier: identifier, Role: defaultRole})
		}

		for _, item := range raw.Structured {
			identifier, ok := normalizeIdentifier(item.Email)
			if !ok {
				return nil, ErrEmptyInvitee
			}
			if !validator.IsEmail(identifier) {
				return nil, ErrInvalidEmailFormat
			}
			role := defaultRole
			if strings.TrimSpace(item.Role) != "" {
				parsed, ok := models.ParseMembershipRole(item.Role)
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrInvalidRole, item.Role)
				}
				role = parsed
			}
			candidates = append(candidates, InviteEntry{Identifier: identifier, Role: role})
		}

	default:
		pieces := splitFreeText(raw.Single)
		if len(pieces) == 0 {
			return nil, ErrEmptyInvitee
		}
		if len(pieces) > maxBatch {
			return nil, fmt.Errorf("%w: you are limited to inviting a maximum of %d users at once", ErrTooManyInvitees, maxBatch)
		}
		for _, piece := range pieces {
			candidates = append(candidates, InviteEntry{Identifier: piece, Role: defaultRole})
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	entries := make([]InviteEntry, 0, len(candidates))
	for _, candidate := range candidates {
		if looksLikeEmail(candidate.Identifier) && !validator.IsEmail(candidate.Identifier) {
			return nil, ErrInvalidEmailFormat
		}
		if _, exists := seen[candidate.Identifier]; exists {
			continue
		}
		seen[candidate.Identifier] = struct{}{}
		entries = append(entries, candidate)
	}

	return entries, nil
}

// splitFreeText breaks a single free-text field on newline, comma, and
// semicolon separators, dropping pieces that normalize to nothing.
func splitFreeText(raw string) []string {
	pieces := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})

	var out []string
	for _, piece := range pieces {
		if identifier, ok := normalizeIdentifier(piece); ok {
			out = append(out, identifier)
		}
	}
	return out
}
