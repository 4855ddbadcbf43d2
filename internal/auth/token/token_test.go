package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipvault/internal/sentinel"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func newTestService(revs *fakeRevocations, opts ...Option) *Service {
	if revs == nil {
		revs = &fakeRevocations{revoked: map[string]bool{}}
	}
	return NewService("test-secret", 15*time.Minute, 24*time.Hour, revs, opts...)
}

func testSubject() Subject {
	return Subject{ID: 42, Username: "alice", IsSuperuser: false}
}

func TestIssuePairAndValidate(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.Validate(ctx, pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, testSubject(), claims.Data)
	assert.Equal(t, string(TypeAccess), claims.TokenType)

	claims, err = svc.Validate(ctx, pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, testSubject(), claims.Data)
	assert.Equal(t, string(TypeRefresh), claims.TokenType)
}

func TestValidateRejectsWrongType(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)

	_, err = svc.Validate(ctx, pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, sentinel.ErrWrongType)

	_, err = svc.Validate(ctx, pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, sentinel.ErrWrongType)
}

func TestValidateRejectsExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	svc := newTestService(nil, WithClock(func() time.Time { return past }))

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, sentinel.ErrExpired)
}

func TestValidateRejectsMalformed(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Validate(ctx, raw, TypeAccess)
		assert.ErrorIs(t, err, sentinel.ErrMalformed, "token %q", raw)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc := newTestService(nil)
	other := NewService("other-secret", 15*time.Minute, 24*time.Hour, &fakeRevocations{revoked: map[string]bool{}})

	foreign, err := other.Issue(testSubject(), TypeAccess, 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), foreign, TypeAccess)
	assert.ErrorIs(t, err, sentinel.ErrMalformed)
}

func TestValidateRejectsRevoked(t *testing.T) {
	revs := &fakeRevocations{revoked: map[string]bool{}}
	svc := newTestService(revs)
	ctx := context.Background()

	access, err := svc.Issue(testSubject(), TypeAccess, 15*time.Minute)
	require.NoError(t, err)

	revs.revoked[access] = true
	_, err = svc.Validate(ctx, access, TypeAccess)
	assert.ErrorIs(t, err, sentinel.ErrRevoked)
}

func TestValidateFailsClosedOnRevocationError(t *testing.T) {
	revs := &fakeRevocations{err: assert.AnError}
	svc := newTestService(revs)

	access, err := svc.Issue(testSubject(), TypeAccess, 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), access, TypeAccess)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestIsWellFormedToleratesExpiry(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	svc := newTestService(nil, WithClock(func() time.Time { return past }))

	expired, err := svc.Issue(testSubject(), TypeAccess, time.Minute)
	require.NoError(t, err)

	assert.True(t, svc.IsWellFormed(expired))
	assert.False(t, svc.IsWellFormed("not-a-jwt"))

	other := NewService("other-secret", time.Minute, time.Minute, nil)
	foreign, err := other.Issue(testSubject(), TypeAccess, time.Minute)
	require.NoError(t, err)
	assert.False(t, svc.IsWellFormed(foreign))
}

func TestDecodeSubjectUnverified(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	svc := newTestService(nil, WithClock(func() time.Time { return past }))

	expired, err := svc.Issue(testSubject(), TypeAccess, time.Minute)
	require.NoError(t, err)

	sub, err := DecodeSubjectUnverified(expired)
	require.NoError(t, err)
	assert.Equal(t, testSubject(), sub)

	_, err = DecodeSubjectUnverified("garbage")
	assert.ErrorIs(t, err, sentinel.ErrMalformed)
}
