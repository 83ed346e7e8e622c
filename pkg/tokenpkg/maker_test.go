package tokenpkg

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-economy/pkg/randompkg"
)

var makers = []struct {
	name string
	new  func(key string) (Maker, error)
}{
	{name: "JWT", new: NewJWTMaker},
	{name: "Paseto", new: NewPasetoMaker},
}

func TestNewMakerKeySize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		new     func(key string) (Maker, error)
		key     string
		wantErr bool
	}{
		{name: "JWTExact", new: NewJWTMaker, key: strings.Repeat("k", 32)},
		{name: "JWTLonger", new: NewJWTMaker, key: strings.Repeat("k", 48)},
		{name: "JWTShort", new: NewJWTMaker, key: strings.Repeat("k", 31), wantErr: true},
		{name: "PasetoExact", new: NewPasetoMaker, key: strings.Repeat("k", 32)},
		{name: "PasetoLonger", new: NewPasetoMaker, key: strings.Repeat("k", 33), wantErr: true},
		{name: "PasetoShort", new: NewPasetoMaker, key: "short", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.new(tc.key)
			if tc.wantErr {
				require.ErrorContains(t, err, "invalid key size")
				require.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestMakerRoundTrip(t *testing.T) {
	t.Parallel()

	for _, m := range makers {
		m := m

		t.Run(m.name, func(t *testing.T) {
			t.Parallel()

			maker, err := m.new(randompkg.String(32))
			require.NoError(t, err)

			for _, accountID := range []int64{0, randompkg.AccountID()} {
				token, payload, err := maker.CreateToken(accountID, time.Minute)
				require.NoError(t, err)

				got, err := maker.VerifyToken(token)
				require.NoError(t, err)

				want := &Payload{
					AccountID: accountID,
					IssuedAt:  time.Now(),
					ExpiredAt: time.Now().Add(time.Minute),
				}

				approx := cmpopts.EquateApproxTime(time.Second)

				if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Payload{}, "ID"), approx); diff != "" {
					t.Errorf("maker.VerifyToken(%v) returned unexpected diff: %v", token, diff)
				}

				require.Equal(t, payload.ID, got.ID)
			}
		})
	}
}

func TestMakerRejects(t *testing.T) {
	t.Parallel()

	for _, m := range makers {
		m := m

		t.Run(m.name, func(t *testing.T) {
			t.Parallel()

			maker, err := m.new(randompkg.String(32))
			require.NoError(t, err)

			other, err := m.new(randompkg.String(32))
			require.NoError(t, err)

			expired, _, err := maker.CreateToken(randompkg.AccountID(), -time.Minute)
			require.NoError(t, err)

			_, err = maker.VerifyToken(expired)
			require.ErrorIs(t, err, ErrExpiredToken)

			foreign, _, err := other.CreateToken(randompkg.AccountID(), time.Minute)
			require.NoError(t, err)

			_, err = maker.VerifyToken(foreign)
			require.ErrorIs(t, err, ErrInvalidToken)

			_, err = maker.VerifyToken("not-a-token")
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTMakerRejectsAlgNone(t *testing.T) {
	t.Parallel()

	payload, err := NewPayload(randompkg.AccountID(), time.Minute)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, payload).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	maker, err := NewJWTMaker(randompkg.String(32))
	require.NoError(t, err)

	_, err = maker.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
