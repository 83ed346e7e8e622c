package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestParseStatic(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Static
		wantErr bool
	}{
		{name: "Empty", input: "", want: Static{}},
		{name: "Pairs", input: "101=Alice, 102 = Bob ,", want: Static{101: "Alice", 102: "Bob"}},
		{name: "MissingSeparator", input: "101Alice", wantErr: true},
		{name: "BadID", input: "abc=Alice", wantErr: true},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStatic(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLabel(t *testing.T) {
	ctx := context.Background()
	names := Static{7: "Alice"}

	require.Equal(t, "Bank", Label(ctx, names, domain.BankID))
	require.Equal(t, "Alice", Label(ctx, names, 7))
	require.Equal(t, "User 8", Label(ctx, names, 8))
	require.Equal(t, "User 9", Label(ctx, nil, 9))
}

func TestLabelResolverFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := NewMockResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any(), int64(5)).Return("", errors.New("chat api down"))

	require.Equal(t, "User 5", Label(context.Background(), r, 5))
}
