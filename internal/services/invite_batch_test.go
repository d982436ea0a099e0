package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/roster/internal/models"
)

func TestRawInvitesUnmarshalJSON(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		var raw RawInvites
		require.NoError(t, json.Unmarshal([]byte(`"a@x.com, b@x.com"`), &raw))
		assert.Equal(t, "a@x.com, b@x.com", raw.Single)
		assert.Empty(t, raw.List)
		assert.Empty(t, raw.Structured)
	})

	t.Run("string array", func(t *testing.T) {
		var raw RawInvites
		require.NoError(t, json.Unmarshal([]byte(`["a@x.com","someuser"]`), &raw))
		assert.Equal(t, []string{"a@x.com", "someuser"}, raw.List)
	})

	t.Run("structured array", func(t *testing.T) {
		var raw RawInvites
		require.NoError(t, json.Unmarshal([]byte(`[{"email":"a@x.com","role":"ADMIN"}]`), &raw))
		require.Len(t, raw.Structured, 1)
		assert.Equal(t, "a@x.com", raw.Structured[0].Email)
		assert.Equal(t, "ADMIN", raw.Structured[0].Role)
	})

	t.Run("mixed array", func(t *testing.T) {
		var raw RawInvites
		require.NoError(t, json.Unmarshal([]byte(`["a@x.com",{"email":"b@x.com"}]`), &raw))
		assert.Equal(t, []string{"a@x.com"}, raw.List)
		require.Len(t, raw.Structured, 1)
		assert.Equal(t, "b@x.com", raw.Structured[0].Email)
	})

	t.Run("rejects non-string non-object", func(t *testing.T) {
		var raw RawInvites
		assert.Error(t, json.Unmarshal([]byte(`42`), &raw))
	})
}

func TestParseInviteBatchFreeText(t *testing.T) {
	entries, err := ParseInviteBatch(RawInvites{
		Single: "a@x.com, A@X.COM; b@x.com\nsomeuser",
	}, "MEMBER", 50)
	require.NoError(t, err)

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Identifier)
	}
	// Duplicates collapse after lowercasing, first occurrence wins.
	assert.Equal(t, []string{"a@x.com", "b@x.com", "someuser"}, got)
	for _, e := range entries {
		assert.Equal(t, models.MembershipRoleMember, e.Role)
	}
}

func TestParseInviteBatchRejectsMalformedEmail(t *testing.T) {
	_, err := ParseInviteBatch(RawInvites{
		Single: "a@x.com, bad-email@",
	}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)
}

func TestParseInviteBatchTooManyInvitees(t *testing.T) {
	list := make([]string, 51)
	for i := range list {
		list[i] = "user" + string(rune('a'+i%26)) + "@example.com"
	}

	_, err := ParseInviteBatch(RawInvites{List: list}, "MEMBER", 50)
	require.ErrorIs(t, err, ErrTooManyInvitees)
	assert.Contains(t, err.Error(), "maximum of 50")

	// The limit applies to the raw count, before deduplication.
	dupes := make([]string, 51)
	for i := range dupes {
		dupes[i] = "same@example.com"
	}
	_, err = ParseInviteBatch(RawInvites{List: dupes}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrTooManyInvitees)
}

func TestParseInviteBatchStructuredRoles(t *testing.T) {
	entries, err := ParseInviteBatch(RawInvites{
		Structured: []StructuredInvite{
			{Email: "admin@x.com", Role: "ADMIN"},
			{Email: "plain@x.com"},
		},
	}, "MEMBER", 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MembershipRoleAdmin, entries[0].Role)
	assert.Equal(t, models.MembershipRoleMember, entries[1].Role)
}

func TestParseInviteBatchStructuredValidation(t *testing.T) {
	_, err := ParseInviteBatch(RawInvites{
		Structured: []StructuredInvite{{Email: "admin@x.com", Role: "SUPREME_LEADER"}},
	}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = ParseInviteBatch(RawInvites{
		Structured: []StructuredInvite{{Email: "not-an-email"}},
	}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	_, err = ParseInviteBatch(RawInvites{
		Structured: []StructuredInvite{{Email: "   "}},
	}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrEmptyInvitee)
}

func TestParseInviteBatchEmptyListEntry(t *testing.T) {
	_, err := ParseInviteBatch(RawInvites{List: []string{"a@x.com", "  "}}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrEmptyInvitee)
}

func TestParseInviteBatchEmptyFreeText(t *testing.T) {
	_, err := ParseInviteBatch(RawInvites{Single: " ,; \n "}, "MEMBER", 50)
	assert.ErrorIs(t, err, ErrEmptyInvitee)
}

func TestParseInviteBatchUnknownBatchRoleFallsBack(t *testing.T) {
	entries, err := ParseInviteBatch(RawInvites{List: []string{"a@x.com"}}, "nonsense", 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.MembershipRoleMember, entries[0].Role)
}
