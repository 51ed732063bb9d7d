package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type nodeKind struct {
	name    string
	new     func() Node
	fromRaw func(map[string]any) Node
}

func kinds() []nodeKind {
	return []nodeKind{
		{"Root", func() Node { return NewRoot() }, func(m map[string]any) Node { return FromRaw[Root](m) }},
		{"NavButton", func() Node { return NewNavButton() }, func(m map[string]any) Node { return FromRaw[NavButton](m) }},
		{"TemplateSet", func() Node { return NewTemplateSet() }, func(m map[string]any) Node { return FromRaw[TemplateSet](m) }},
		{"Namespace", func() Node { return NewNamespace() }, func(m map[string]any) Node { return FromRaw[Namespace](m) }},
		{"ModelFeature", func() Node { return NewModelFeature() }, func(m map[string]any) Node { return FromRaw[ModelFeature](m) }},
		{"ModelPackage", func() Node { return NewModelPackage() }, func(m map[string]any) Node { return FromRaw[ModelPackage](m) }},
		{"LexiconItem", func() Node { return NewLexiconItem() }, func(m map[string]any) Node { return FromRaw[LexiconItem](m) }},
		{"UserStory", func() Node { return NewUserStory() }, func(m map[string]any) Node { return FromRaw[UserStory](m) }},
		{"ObjectType", func() Node { return NewObjectType() }, func(m map[string]any) Node { return FromRaw[ObjectType](m) }},
		{"Property", func() Node { return NewProperty() }, func(m map[string]any) Node { return FromRaw[Property](m) }},
		{"PropSubscription", func() Node { return NewPropSubscription() }, func(m map[string]any) Node { return FromRaw[PropSubscription](m) }},
		{"CalculatedProp", func() Node { return NewCalculatedProp() }, func(m map[string]any) Node { return FromRaw[CalculatedProp](m) }},
		{"Fetch", func() Node { return NewFetch() }, func(m map[string]any) Node { return FromRaw[Fetch](m) }},
		{"IntersectionObject", func() Node { return NewIntersectionObject() }, func(m map[string]any) Node { return FromRaw[IntersectionObject](m) }},
		{"ChildObject", func() Node { return NewChildObject() }, func(m map[string]any) Node { return FromRaw[ChildObject](m) }},
		{"LookupItem", func() Node { return NewLookupItem() }, func(m map[string]any) Node { return FromRaw[LookupItem](m) }},
		{"Workflow", func() Node { return NewWorkflow() }, func(m map[string]any) Node { return FromRaw[Workflow](m) }},
		{"WorkflowParam", func() Node { return NewWorkflowParam() }, func(m map[string]any) Node { return FromRaw[WorkflowParam](m) }},
		{"WorkflowOutputVar", func() Node { return NewWorkflowOutputVar() }, func(m map[string]any) Node { return FromRaw[WorkflowOutputVar](m) }},
		{"WorkflowButton", func() Node { return NewWorkflowButton() }, func(m map[string]any) Node { return FromRaw[WorkflowButton](m) }},
		{"DynaFlowTask", func() Node { return NewDynaFlowTask() }, func(m map[string]any) Node { return FromRaw[DynaFlowTask](m) }},
		{"Report", func() Node { return NewReport() }, func(m map[string]any) Node { return FromRaw[Report](m) }},
		{"ReportColumn", func() Node { return NewReportColumn() }, func(m map[string]any) Node { return FromRaw[ReportColumn](m) }},
		{"ReportParam", func() Node { return NewReportParam() }, func(m map[string]any) Node { return FromRaw[ReportParam](m) }},
		{"ReportButton", func() Node { return NewReportButton() }, func(m map[string]any) Node { return FromRaw[ReportButton](m) }},
		{"Query", func() Node { return NewQuery() }, func(m map[string]any) Node { return FromRaw[Query](m) }},
		{"QueryParam", func() Node { return NewQueryParam() }, func(m map[string]any) Node { return FromRaw[QueryParam](m) }},
		{"APISite", func() Node { return NewAPISite() }, func(m map[string]any) Node { return FromRaw[APISite](m) }},
		{"APIEnvironment", func() Node { return NewAPIEnvironment() }, func(m map[string]any) Node { return FromRaw[APIEnvironment](m) }},
		{"APIEndPoint", func() Node { return NewAPIEndPoint() }, func(m map[string]any) Node { return FromRaw[APIEndPoint](m) }},
	}
}

var sampleText = []string{"", "Customer", "true", "false", "nvarchar", "18,2", "<b>x</b>", "a & b", "ünïcode", "line\nbreak"}

// populate fills n in place: each scalar is set with probability one half and
// each collection receives up to three children, down to the given depth.
func populate(n Node, r *rand.Rand, depth int) {
	for _, f := range n.fields() {
		if f.scalar != nil {
			if r.Intn(2) == 0 {
				f.decode(sampleText[r.Intn(len(sampleText))])
			}
			continue
		}
		if depth == 0 {
			continue
		}
		items := make([]any, r.Intn(4))
		for i := range items {
			items[i] = map[string]any{}
		}
		f.decode(items)
		for _, child := range f.children() {
			populate(child, r, depth-1)
		}
	}
}

// TestProperty_RoundTrip checks that for every record type, constructing a
// record from its own ToRaw output reproduces the same raw structure, and
// that the same holds after a trip through JSON text.
func TestProperty_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	for _, k := range kinds() {
		k := k
		properties.Property(fmt.Sprintf("%s survives ToRaw/FromRaw", k.name), prop.ForAll(
			func(seed int64) bool {
				n := k.new()
				populate(n, rand.New(rand.NewSource(seed)), 3)

				raw := n.ToRaw()
				if !reflect.DeepEqual(k.fromRaw(raw).ToRaw(), raw) {
					return false
				}

				data, err := Marshal(n)
				if err != nil {
					return false
				}
				var parsed map[string]any
				if err := json.Unmarshal(data, &parsed); err != nil {
					return false
				}
				again, err := Marshal(k.fromRaw(parsed))
				if err != nil {
					return false
				}
				return bytes.Equal(data, again) && reflect.DeepEqual(parsed, raw)
			},
			gen.Int64(),
		))
	}

	properties.TestingRun(t)
}

// TestProperty_ConstructionIsIdempotent checks that running construction
// over an already built collection reuses the existing records.
func TestProperty_ConstructionIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("prebuilt children keep their identity", prop.ForAll(
		func(count int) bool {
			props := make([]any, count)
			built := make([]*Property, count)
			for i := range props {
				built[i] = &Property{Name: String(fmt.Sprintf("P%d", i))}
				props[i] = built[i]
			}

			obj := FromRaw[ObjectType](map[string]any{"name": "Customer", "prop": props})
			if len(obj.Props) != count {
				return false
			}
			for i := range built {
				if obj.Props[i] != built[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
