package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextFilterIsCaseInsensitive(t *testing.T) {
	f := TextFilter{Condition: TextContains, Content: "URGENT"}
	require.True(t, f.IsVisible("This is urgent: call back"))
	require.False(t, f.IsVisible("all quiet"))

	f = TextFilter{Condition: TextIs, Content: "Done"}
	require.True(t, f.IsVisible("done"))
	require.False(t, f.IsVisible("done!"))
}

func TestTextFilterEmptiness(t *testing.T) {
	require.True(t, TextFilter{Condition: TextIsEmpty}.IsVisible(""))
	require.False(t, TextFilter{Condition: TextIsEmpty}.IsVisible("x"))
	require.True(t, TextFilter{Condition: TextIsNotEmpty}.IsVisible("x"))
}

func TestNumberFilterHidesMissingValuesFromComparisons(t *testing.T) {
	f := NumberFilter{Condition: NumberGreaterThan, Content: 10}
	require.True(t, f.IsVisible(11, true))
	require.False(t, f.IsVisible(10, true))
	// Empty and unparseable cells fail every comparison...
	require.False(t, f.IsVisible(0, false))
	// ...but match the emptiness conditions.
	require.True(t, NumberFilter{Condition: NumberIsEmpty}.IsVisible(0, false))
	require.False(t, NumberFilter{Condition: NumberIsNotEmpty}.IsVisible(0, false))
}

func TestDateFilterComparesAtDayGranularity(t *testing.T) {
	const day = int64(secondsPerDay)
	noon := day/2 + 3*day

	f := DateFilter{Condition: DateIs, Timestamp: 3 * day}
	require.True(t, f.IsVisible(noon, true))
	require.False(t, f.IsVisible(4*day, true))

	f = DateFilter{Condition: DateWithin, Start: 2 * day, End: 4 * day}
	require.True(t, f.IsVisible(noon, true))
	require.False(t, f.IsVisible(5*day, true))

	// Negative timestamps floor to the previous day.
	f = DateFilter{Condition: DateBefore, Timestamp: 0}
	require.True(t, f.IsVisible(-1, true))
}

func TestSelectOptionFilterMatchesOnOverlap(t *testing.T) {
	f := SelectOptionFilter{Condition: OptionIs, OptionIDs: []string{"a", "b"}}
	require.True(t, f.IsVisible([]string{"b", "c"}))
	require.False(t, f.IsVisible([]string{"c"}))
	require.False(t, f.IsVisible(nil))

	f = SelectOptionFilter{Condition: OptionIsNot, OptionIDs: []string{"a"}}
	require.True(t, f.IsVisible([]string{"c"}))
	require.False(t, f.IsVisible([]string{"a", "c"}))
}

func TestChecklistFilterRequiresItemsForCompletion(t *testing.T) {
	complete := ChecklistFilter{Condition: ChecklistIsComplete}
	require.True(t, complete.IsVisible(1.0, true))
	require.False(t, complete.IsVisible(0.5, true))
	// An empty checklist is never complete.
	require.False(t, complete.IsVisible(0, false))
	require.True(t, ChecklistFilter{Condition: ChecklistIsIncomplete}.IsVisible(0, false))
}
