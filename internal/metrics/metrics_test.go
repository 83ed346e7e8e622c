package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	require.Equal(t, ResultOK, Result(nil))
	require.Equal(t, ResultRejected, Result(domain.ErrInsufficientFunds))
	require.Equal(t, ResultFailed, Result(fmt.Errorf("send: %w", errorspkg.ErrOperationFailed)))
}

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(ledgerOperations.WithLabelValues("send", ResultRejected))

	RecordOperation("send", domain.ErrSameAccount)

	after := testutil.ToFloat64(ledgerOperations.WithLabelValues("send", ResultRejected))
	require.Equal(t, before+1, after)
}

func TestRecordAccrual(t *testing.T) {
	before := testutil.ToFloat64(accrualLoans.WithLabelValues("unchanged"))

	RecordAccrual(domain.AccrualReport{Scanned: 5, Accrued: 2, Failed: 1})

	require.Equal(t, before+2, testutil.ToFloat64(accrualLoans.WithLabelValues("unchanged")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveHTTP(http.MethodGet, "/accounts/me", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "economy_http_requests_total"))
}
