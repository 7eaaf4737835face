// Package ctcdkutil holds resource-naming helpers for the CDK app.
package ctcdkutil

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

// Casing specifies how to format the identifier string.
type Casing int

const (
	// CasingCamel formats as CamelCase (e.g., "CtransBookTransport").
	CasingCamel Casing = iota
	// CasingLowerCamel formats as lowerCamelCase (e.g., "ctransBookTransport").
	CasingLowerCamel
	// CasingSnake formats as snake_case (e.g., "ctrans_book_transport").
	CasingSnake
	// CasingScreamingSnake formats as SCREAMING_SNAKE_CASE (e.g., "CTRANS_BOOK_TRANSPORT").
	CasingScreamingSnake
	// CasingKebab formats as kebab-case (e.g., "ctrans-book-transport").
	CasingKebab
)

// ResourceName generates a resource identifier prefixed with the app's
// qualifier, converted to the specified casing. The label is a free-form
// string that the caller provides.
func ResourceName(scope constructs.Construct, label string, casing Casing) string {
	base := fmt.Sprintf("%s-%s", Qualifier(scope), label)
	return applyCasing(base, casing)
}

// Qualifier retrieves the CDK qualifier from context. The qualifier must be
// max 10 characters per AWS CDK limits.
func Qualifier(scope constructs.Construct) string {
	qual, ok := scope.Node().TryGetContext(jsii.String("ct-qualifier")).(string)
	if !ok || qual == "" {
		panic("invalid 'ct-qualifier', is it set?")
	}
	if len(qual) > 10 { // https://github.com/aws/aws-cdk/pull/10121/files
		panic(fmt.Sprintf("CDK qualifier became too large (>10): '%s', adjust context.", qual))
	}

	return qual
}

func applyCasing(s string, casing Casing) string {
	switch casing {
	case CasingCamel:
		return strcase.ToCamel(s)
	case CasingLowerCamel:
		return strcase.ToLowerCamel(s)
	case CasingSnake:
		return strcase.ToSnake(s)
	case CasingScreamingSnake:
		return strcase.ToScreamingSnake(s)
	case CasingKebab:
		return strcase.ToKebab(s)
	default:
		return strcase.ToCamel(s)
	}
}
