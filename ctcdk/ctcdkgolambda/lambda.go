// Package ctcdkgolambda provides a reusable Lambda construct for Go
// functions invoked directly with events (EventBridge, CloudFormation
// custom resources).
//
// The construct handles Go bundling with reproducible builds, JSON logging,
// X-Ray tracing, and a short-retention log group exported as a stack output.
package ctcdkgolambda

import (
	"path/filepath"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"

	"github.com/parcelport/carriertransport/ctcdk/ctcdkutil"
)

// Lambda provides access to a Go Lambda function.
type Lambda interface {
	// Function returns the underlying Lambda function.
	Function() awscdklambdagoalpha.GoFunction
	// LogGroup returns the CloudWatch Log Group for the function.
	LogGroup() awslogs.ILogGroup
	// Name returns the construct name derived from the entry path.
	Name() string
}

// Props configures the Lambda construct.
type Props struct {
	// Entry is the path to the Go command directory.
	// Must match pattern "cmd/<command>" (e.g., "cmd/booking").
	// The command names the construct for AWS Console visibility.
	// Required.
	Entry *string
	// Environment variables to pass to the function.
	// SERVICE_NAME and OTEL_EXPORTER are set automatically.
	Environment *map[string]*string
	// Timeout for the function. Defaults to 30 seconds.
	Timeout awscdk.Duration
}

// ParseEntry extracts the command from an entry path.
// Validates pattern "cmd/<command>".
func ParseEntry(entry string) (command string, err error) {
	parts := strings.Split(filepath.ToSlash(entry), "/")
	if len(parts) == 2 && parts[0] == "cmd" && parts[1] != "" {
		return parts[1], nil
	}

	return "", errors.Newf("entry must match pattern cmd/<command>, got %q", entry)
}

type lambda struct {
	function awscdklambdagoalpha.GoFunction
	logGroup awslogs.ILogGroup
	name     string
}

// New creates a Lambda construct for a Go event handler.
//
// The function uses arm64 architecture for better price/performance and
// configures reproducible Go builds. Logs are JSON-formatted and retained
// for one week; tracing goes to X-Ray via the built-in daemon.
func New(scope constructs.Construct, props Props) Lambda {
	command, err := ParseEntry(*props.Entry)
	if err != nil {
		panic(err)
	}
	scopeName := strcase.ToCamel(command)
	scope = constructs.NewConstruct(scope, jsii.String(scopeName))
	con := &lambda{name: scopeName}

	functionName := ctcdkutil.ResourceName(scope, scopeName, ctcdkutil.CasingKebab)

	env := make(map[string]*string)
	if props.Environment != nil {
		for key, value := range *props.Environment {
			env[key] = value
		}
	}
	env["SERVICE_NAME"] = jsii.String(functionName)
	env["OTEL_EXPORTER"] = jsii.String("xrayudp")

	timeout := props.Timeout
	if timeout == nil {
		timeout = awscdk.Duration_Seconds(jsii.Number(30))
	}

	con.logGroup = awslogs.NewLogGroup(scope, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		Retention:     awslogs.RetentionDays_ONE_WEEK,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String(scopeName + "LogGroup"),
		Description: jsii.String("CloudWatch Log Group for Lambda function " + scopeName),
		Value:       con.logGroup.LogGroupName(),
	})

	con.function = awscdklambdagoalpha.NewGoFunction(scope, jsii.String("Function"),
		&awscdklambdagoalpha.GoFunctionProps{
			FunctionName:  jsii.String(functionName),
			Entry:         props.Entry,
			Architecture:  awslambda.Architecture_ARM_64(),
			Runtime:       awslambda.Runtime_PROVIDED_AL2023(),
			MemorySize:    jsii.Number(128),
			Timeout:       timeout,
			Environment:   &env,
			Bundling:      goBundling(),
			Tracing:       awslambda.Tracing_ACTIVE,
			LogGroup:      con.logGroup,
			LoggingFormat: awslambda.LoggingFormat_JSON,
		})

	return con
}

// goBundling makes the build reproducible: identical sources yield an
// identical binary, so unchanged functions never redeploy. Paths, build ids,
// VCS stamps, and cgo are all sources of variance and are switched off.
func goBundling() *awscdklambdagoalpha.BundlingOptions {
	return &awscdklambdagoalpha.BundlingOptions{
		GoBuildFlags: jsii.Strings("-trimpath", "-ldflags=-buildid=", "-buildvcs=false"),
		Environment: &map[string]*string{
			"CGO_ENABLED": jsii.String("0"),
		},
	}
}

func (l *lambda) Function() awscdklambdagoalpha.GoFunction {
	return l.function
}

func (l *lambda) LogGroup() awslogs.ILogGroup {
	return l.logGroup
}

func (l *lambda) Name() string {
	return l.name
}
