// Command initializer backs the CloudFormation custom resource that
// registers the Bring carrier configuration in the IMS when the stack is
// created.
package main

import (
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/ctlambda"
	"github.com/parcelport/carriertransport/internal/bring"
	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
	"github.com/parcelport/carriertransport/internal/provision"
)

type Env struct {
	ctlambda.BaseEnvironment

	ClientID     string `env:"ClientId,required"`
	ClientSecret string `env:"ClientSecret,required"`
	APIKey       string `env:"ApiKey,required"`

	IMSAPIURL  string `env:"IMS_API_URL" envDefault:"https://api.thetis-ims.com/2/"`
	IMSAuthURL string `env:"IMS_AUTH_URL" envDefault:"https://auth.thetis-ims.com/oauth2/"`

	CarrierAPIKey         string `env:"CARRIER_API_KEY,required"`
	CarrierAPIUID         string `env:"CARRIER_API_UID,required"`
	CarrierCustomerNumber string `env:"CARRIER_CUSTOMER_NUMBER,required"`
	CarrierTestIndicator  bool   `env:"CARRIER_TEST_INDICATOR" envDefault:"false"`
}

const requestTimeout = 20 * time.Second

func main() {
	ctlambda.NewApp[Env](ctlambda.WithFx(
		fx.Provide(
			newHTTPClient,
			newIMSClient,
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

func newHandler(env Env, imsClient *ims.Client, httpClient *http.Client, log *zap.Logger) lambda.Handler {
	registration := provision.Registration{
		CarrierName: bring.CarrierName,
		SetupKey:    bring.SetupKey,
		Setup: carrier.Setup{
			APIKey:         env.CarrierAPIKey,
			APIUID:         env.CarrierAPIUID,
			CustomerNumber: env.CarrierCustomerNumber,
			TestIndicator:  env.CarrierTestIndicator,
		},
	}
	handler := provision.NewHandler(imsClient, registration, httpClient, log)
	return lambda.NewHandler(handler.Handle)
}
