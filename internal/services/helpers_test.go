package services_test

import (
	"testing"
	"time"

	"tdc_backend/internal/auth"
	"tdc_backend/internal/email"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/services"
	"tdc_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const paymentSecret = "rzp_test_secret"

type testEnv struct {
	db      *gorm.DB
	svc     *services.ServiceContainer
	store   *testutil.MemStorage
	gateway *testutil.FakeGateway
	mail    *email.LogProvider
	tokens  *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	templates, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)

	env := &testEnv{
		db:      testutil.NewTestDB(t),
		store:   testutil.NewMemStorage(),
		gateway: &testutil.FakeGateway{},
		mail:    email.NewLogProvider(),
		tokens:  auth.NewTokenManager("test-secret", time.Hour),
	}
	env.svc = services.NewServiceContainer(services.Dependencies{
		Tokens:        env.tokens,
		Mailer:        email.NewMailer(env.mail, templates),
		Storage:       env.store,
		Gateway:       env.gateway,
		Metrics:       metrics.New(),
		PaymentSecret: paymentSecret,
		Currency:      "INR",
		FrontendURL:   "http://portal.test/",
	})
	return env
}
