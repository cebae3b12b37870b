package charts

import (
	"fmt"
	"strings"

	"liquefy/domain/measurement"
	"liquefy/domain/result"
	"liquefy/internal/errors"
	"liquefy/internal/resulttable"
)

// Plan fixes one column and uses another as the category axis. Every value of
// the fixed column present in the table gets one chart per extraction target.
type Plan struct {
	Fixed    string
	Category string
}

func (p Plan) String() string {
	return p.Fixed + ":" + p.Category
}

// ParsePlan reads "fixed:category", e.g. "CSR:e"
func ParsePlan(s string) (Plan, error) {
	fixed, category, ok := strings.Cut(strings.TrimSpace(s), ":")
	fixed, category = strings.TrimSpace(fixed), strings.TrimSpace(category)
	if !ok || fixed == "" || category == "" {
		return Plan{}, errors.ConfigInvalid(fmt.Sprintf("chart plan %q must look like fixed:category", s))
	}
	if fixed == category {
		return Plan{}, errors.ConfigInvalid(fmt.Sprintf("chart plan %q fixes its own category", s))
	}
	for _, c := range []string{fixed, category} {
		if c == result.ColTargetDA || c == result.ColTargetRu {
			return Plan{}, errors.ConfigInvalid(fmt.Sprintf("chart plan %q: target columns are fixed per chart already", s))
		}
	}
	return Plan{Fixed: fixed, Category: category}, nil
}

// ParsePlans parses each item with ParsePlan
func ParsePlans(items []string) ([]Plan, error) {
	plans := make([]Plan, 0, len(items))
	for _, item := range items {
		p, err := ParsePlan(item)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// BuildSpecs expands plans against the values actually present in table. For
// each plan and each fixed value, DA target charts come first, then ru ones.
func BuildSpecs(table *result.Table, plans []Plan, valueColumn string) ([]ChartSpec, error) {
	if !table.HasColumn(valueColumn) {
		return nil, errors.InvalidInput("result table has no column " + valueColumn)
	}

	targets := presentTargets(table)
	var specs []ChartSpec
	for _, plan := range plans {
		if !table.HasColumn(plan.Fixed) || !table.HasColumn(plan.Category) {
			return nil, errors.InvalidInput(fmt.Sprintf("chart plan %s names a column missing from the result table", plan))
		}
		for _, fixed := range table.Distinct(plan.Fixed) {
			for _, target := range targets {
				specs = append(specs, newSpec(plan, fixed, target, valueColumn))
			}
		}
	}
	return specs, nil
}

func presentTargets(table *result.Table) []measurement.Target {
	var targets []measurement.Target
	for _, v := range table.Distinct(result.ColTargetDA) {
		if v != result.NotApplicable {
			targets = append(targets, measurement.DA(v))
		}
	}
	for _, v := range table.Distinct(result.ColTargetRu) {
		if v != result.NotApplicable {
			targets = append(targets, measurement.Ru(v))
		}
	}
	return targets
}

func newSpec(plan Plan, fixed float64, target measurement.Target, valueColumn string) ChartSpec {
	targetColumn := result.ColTargetDA
	if target.Kind == measurement.TargetRu {
		targetColumn = result.ColTargetRu
	}
	fixedText := resulttable.FormatFloat(fixed)
	targetText := resulttable.FormatFloat(target.Value)

	return ChartSpec{
		Name:  fileStem(plan.Fixed, fixedText, target.Kind.String(), targetText),
		Title: fmt.Sprintf("%s=%s, %s=%s", plan.Fixed, fixedText, target.Kind, targetText),
		Fixed: []Constraint{
			{Column: plan.Fixed, Value: fixed},
			{Column: targetColumn, Value: target.Value},
		},
		Category: plan.Category,
		Value:    valueColumn,
	}
}

var unsafeName = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")

func fileStem(parts ...string) string {
	return unsafeName.Replace(strings.Join(parts, "_"))
}
