package postgres_test

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"citygate/internal/repository/postgres/integration"
	"citygate/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessRepository_ListAndPurge(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	records := []*models.AccessRecord{
		{Email: "alice@example.com", IP: "10.0.0.1", Browser: "curl/8.0", Country: "SE", CreatedAt: base.Add(-100 * 24 * time.Hour)},
		{Email: "alice@example.com", IP: "10.0.0.2", Browser: "curl/8.0", Country: "SE", CreatedAt: base.Add(-time.Hour)},
		{Email: "bob@example.com", IP: "10.0.0.3", Browser: "Firefox", Country: "NO", CreatedAt: base},
	}
	for _, r := range records {
		require.NoError(t, tc.Access.Create(ctx, r))
	}

	tests := []struct {
		name    string
		filter  repository.AccessFilter
		wantIPs []string
	}{
		{
			name:    "All newest first",
			filter:  repository.AccessFilter{},
			wantIPs: []string{"10.0.0.3", "10.0.0.2", "10.0.0.1"},
		},
		{
			name:    "By email",
			filter:  repository.AccessFilter{Email: testutil.Ptr("alice@example.com")},
			wantIPs: []string{"10.0.0.2", "10.0.0.1"},
		},
		{
			name:    "Created after",
			filter:  repository.AccessFilter{CreatedAfter: testutil.Ptr(base.Add(-2 * time.Hour))},
			wantIPs: []string{"10.0.0.3", "10.0.0.2"},
		},
		{
			name:    "Limit and offset",
			filter:  repository.AccessFilter{Limit: testutil.Ptr(1), Offset: testutil.Ptr(1)},
			wantIPs: []string{"10.0.0.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tc.Access.List(ctx, tt.filter)
			require.NoError(t, err)
			ips := make([]string, len(got))
			for i, r := range got {
				ips[i] = r.IP
			}
			require.Equal(t, tt.wantIPs, ips)
		})
	}

	deleted, err := tc.Access.DeleteOlderThan(ctx, base.Add(-90*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	remaining, err := tc.Access.List(ctx, repository.AccessFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}
