package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"

	"github.com/parcelport/carriertransport/ctcdk/ctcdkutil"
	"github.com/parcelport/carriertransport/infra/cdk"
)

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	qualifier := ctcdkutil.Qualifier(app)
	stack := awscdk.NewStack(app, jsii.String(strcase.ToCamel(qualifier)), &awscdk.StackProps{
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			Qualifier: jsii.String(qualifier),
		}),
	})
	cdk.NewStack(stack)

	app.Synth(nil)
}
