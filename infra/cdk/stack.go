// Package cdk assembles the adapter's stack: the booking handler behind an
// EventBridge rule, and the initializer behind a CloudFormation custom
// resource that registers the carrier on stack creation.
package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsevents"
	"github.com/aws/aws-cdk-go/awscdk/v2/awseventstargets"
	"github.com/aws/jsii-runtime-go"

	"github.com/parcelport/carriertransport/ctcdk/ctcdkgolambda"
)

// NewStack populates the stack with both handlers and their triggers. IMS
// credentials arrive as NoEcho parameters so they never land in the
// template output.
func NewStack(stack awscdk.Stack) {
	clientID := awscdk.NewCfnParameter(stack, jsii.String("ClientId"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("IMS OAuth client id"),
		NoEcho:      jsii.Bool(true),
	})
	clientSecret := awscdk.NewCfnParameter(stack, jsii.String("ClientSecret"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("IMS OAuth client secret"),
		NoEcho:      jsii.Bool(true),
	})
	apiKey := awscdk.NewCfnParameter(stack, jsii.String("ApiKey"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("IMS API key"),
		NoEcho:      jsii.Bool(true),
	})

	carrierAPIKey := awscdk.NewCfnParameter(stack, jsii.String("CarrierApiKey"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("Mybring API key"),
		NoEcho:      jsii.Bool(true),
	})
	carrierAPIUID := awscdk.NewCfnParameter(stack, jsii.String("CarrierApiUid"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("Mybring API user id"),
	})
	carrierCustomerNumber := awscdk.NewCfnParameter(stack, jsii.String("CarrierCustomerNumber"), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("Bring customer number"),
	})

	imsEnv := map[string]*string{
		"ClientId":     clientID.ValueAsString(),
		"ClientSecret": clientSecret.ValueAsString(),
		"ApiKey":       apiKey.ValueAsString(),
	}

	booking := ctcdkgolambda.New(stack, ctcdkgolambda.Props{
		Entry:       jsii.String("cmd/booking"),
		Environment: &imsEnv,
	})

	rule := awsevents.NewRule(stack, jsii.String("BookingRule"), &awsevents.RuleProps{
		Description: jsii.String("Routes transport booking requests to the booking handler"),
		EventPattern: &awsevents.EventPattern{
			Source:     jsii.Strings("public.thetis-ims.com"),
			DetailType: jsii.Strings("bookTransport"),
		},
	})
	rule.AddTarget(awseventstargets.NewLambdaFunction(booking.Function(), nil))

	initializerEnv := map[string]*string{
		"ClientId":                clientID.ValueAsString(),
		"ClientSecret":            clientSecret.ValueAsString(),
		"ApiKey":                  apiKey.ValueAsString(),
		"CARRIER_API_KEY":         carrierAPIKey.ValueAsString(),
		"CARRIER_API_UID":         carrierAPIUID.ValueAsString(),
		"CARRIER_CUSTOMER_NUMBER": carrierCustomerNumber.ValueAsString(),
	}

	initializer := ctcdkgolambda.New(stack, ctcdkgolambda.Props{
		Entry:       jsii.String("cmd/initializer"),
		Environment: &initializerEnv,
	})

	awscdk.NewCustomResource(stack, jsii.String("CarrierRegistration"), &awscdk.CustomResourceProps{
		ServiceToken: initializer.Function().FunctionArn(),
	})
}
