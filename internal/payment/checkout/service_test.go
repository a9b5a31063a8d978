package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clubsphere/internal/audit"
	"clubsphere/internal/payment"
	"clubsphere/internal/payment/gateway"
	"clubsphere/internal/payment/gateway/mocks"
	"clubsphere/internal/platform/metrics"
	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/testutil"
)

func newService(t *testing.T, gw gateway.Gateway) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	return NewService(gw, "https://app.example/success?session_id={CHECKOUT_SESSION_ID}", "https://app.example/cancel", audit.NewService(m, logger), m, logger)
}

func validIntent() payment.PurchaseIntent {
	return payment.PurchaseIntent{
		Kind:          payment.KindClubJoin,
		SubjectID:     "club-1",
		SubjectName:   "Chess Club",
		FeeMinorUnits: 1000,
		BuyerEmail:    "buyer@example.com",
	}
}

func TestParseFee(t *testing.T) {
	testutil.Given(t, "a fee in major units", func(t *testing.T) {
		testutil.Then(t, "it converts to minor units", func(t *testing.T) {
			got, err := ParseFee("10")
			require.NoError(t, err)
			assert.Equal(t, int64(1000), got)
		})
		testutil.Then(t, "fractional amounts round to the nearest cent", func(t *testing.T) {
			got, err := ParseFee("10.555")
			require.NoError(t, err)
			assert.Equal(t, int64(1056), got)
		})
		testutil.Then(t, "zero is a legitimate fee", func(t *testing.T) {
			got, err := ParseFee("0")
			require.NoError(t, err)
			assert.Equal(t, int64(0), got)
		})
	})

	testutil.Given(t, "malformed fee input", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "NaN", "Inf", "-Inf"} {
			raw := raw
			testutil.Then(t, "non-numeric value "+raw+" is rejected", func(t *testing.T) {
				_, err := ParseFee(raw)
				require.Error(t, err)
				assert.True(t, dErrors.Is(err, dErrors.CodeInvalidRequest))
			})
		}
		testutil.Then(t, "negative fees are rejected", func(t *testing.T) {
			_, err := ParseFee("-1")
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, dErrors.CodeInvalidRequest))
		})
	})
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("shapes the gateway request from the intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mocks.NewMockGateway(ctrl)

		var captured gateway.CreateSessionParams
		gw.EXPECT().
			CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gateway.CreateSessionParams) (string, error) {
				captured = params
				return "https://checkout.example/cs_1", nil
			})

		svc := newService(t, gw)
		url, err := svc.CreateSession(ctx, validIntent())
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example/cs_1", url)

		assert.Equal(t, "Chess Club", captured.ProductName)
		assert.Equal(t, int64(1000), captured.UnitAmount)
		assert.Equal(t, Currency, captured.Currency)
		assert.Equal(t, "buyer@example.com", captured.CustomerEmail)
		assert.Equal(t, string(payment.KindClubJoin), captured.Metadata["kind"])
		assert.Equal(t, "club-1", captured.Metadata["subjectId"])
		assert.Contains(t, captured.SuccessURL, "{CHECKOUT_SESSION_ID}")
	})

	t.Run("event registrations carry the parent club in metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mocks.NewMockGateway(ctrl)

		var captured gateway.CreateSessionParams
		gw.EXPECT().
			CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gateway.CreateSessionParams) (string, error) {
				captured = params
				return "https://checkout.example/cs_2", nil
			})

		intent := validIntent()
		intent.Kind = payment.KindEventRegistration
		intent.SubjectID = "event-1"
		intent.SubjectName = "Summer Open"
		intent.ClubID = "club-1"
		intent.ClubName = "Chess Club"

		svc := newService(t, gw)
		_, err := svc.CreateSession(ctx, intent)
		require.NoError(t, err)

		assert.Equal(t, "event-1", captured.Metadata["subjectId"])
		assert.Equal(t, "club-1", captured.Metadata["clubId"])
		assert.Equal(t, "Chess Club", captured.Metadata["clubName"])
	})

	t.Run("rejects invalid intents without calling the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mocks.NewMockGateway(ctrl)
		svc := newService(t, gw)

		cases := map[string]func(*payment.PurchaseIntent){
			"unknown kind":             func(i *payment.PurchaseIntent) { i.Kind = "donation" },
			"missing subject id":       func(i *payment.PurchaseIntent) { i.SubjectID = "" },
			"missing buyer email":      func(i *payment.PurchaseIntent) { i.BuyerEmail = "" },
			"negative fee":             func(i *payment.PurchaseIntent) { i.FeeMinorUnits = -1 },
			"event without parent club": func(i *payment.PurchaseIntent) { i.Kind = payment.KindEventRegistration; i.ClubID = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				intent := validIntent()
				mutate(&intent)
				_, err := svc.CreateSession(ctx, intent)
				require.Error(t, err)
				assert.True(t, dErrors.Is(err, dErrors.CodeInvalidRequest))
			})
		}
	})

	t.Run("gateway failures bubble up without retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mocks.NewMockGateway(ctrl)
		gw.EXPECT().
			CreateSession(gomock.Any(), gomock.Any()).
			Return("", dErrors.New(dErrors.CodeGatewayError, "gateway unreachable")).
			Times(1)

		svc := newService(t, gw)
		_, err := svc.CreateSession(ctx, validIntent())
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeGatewayError))
	})
}
