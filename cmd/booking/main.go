// Command booking handles transport-booking events from the IMS: it fetches
// the shipment, books it with Bring, and writes tracking data, the shipping
// label, and the work status back.
package main

import (
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/ctlambda"
	"github.com/parcelport/carriertransport/internal/booking"
	"github.com/parcelport/carriertransport/internal/bring"
	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

type Env struct {
	ctlambda.BaseEnvironment

	ClientID     string `env:"ClientId,required"`
	ClientSecret string `env:"ClientSecret,required"`
	APIKey       string `env:"ApiKey,required"`

	IMSAPIURL  string `env:"IMS_API_URL" envDefault:"https://api.thetis-ims.com/2/"`
	IMSAuthURL string `env:"IMS_AUTH_URL" envDefault:"https://auth.thetis-ims.com/oauth2/"`

	BringAPIURL string `env:"BRING_API_URL" envDefault:"https://api.bring.com/booking-api/api/"`
	ClientURL   string `env:"CLIENT_URL" envDefault:"https://public.thetis-ims.com"`
}

const requestTimeout = 20 * time.Second

func main() {
	ctlambda.NewApp[Env](ctlambda.WithFx(
		fx.Provide(
			newHTTPClient,
			newIMSClient,
			newAdapter,
			newHandler,
		),
	)).Run()
}

func newHTTPClient(tp trace.TracerProvider) *http.Client {
	return ctlambda.NewHTTPClient(tp, requestTimeout)
}

func newIMSClient(env Env, httpClient *http.Client, log *zap.Logger) *ims.Client {
	tokens := ims.NewTokenSource(env.IMSAuthURL, env.ClientID, env.ClientSecret, httpClient, log)
	return ims.NewClient(env.IMSAPIURL, env.APIKey, tokens, httpClient, log)
}

func newAdapter(env Env, httpClient *http.Client, log *zap.Logger) carrier.Adapter {
	return bring.NewAdapter(bring.NewClient(env.BringAPIURL, env.ClientURL, httpClient, log))
}

func newHandler(imsClient *ims.Client, adapter carrier.Adapter, log *zap.Logger) lambda.Handler {
	service := booking.NewService(imsClient, adapter, log)
	return lambda.NewHandler(service.Handle)
}
