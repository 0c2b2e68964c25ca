package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "fenced sql block",
			text: "Here is the query I ran:\n```sql\nSELECT store_id, revenue FROM pnl WHERE period = '2024-P12'\n```\nRevenue is down.",
			want: "SELECT store_id, revenue FROM pnl WHERE period = '2024-P12'",
		},
		{
			name: "generic fence with select",
			text: "```\nSELECT 1\n```",
			want: "SELECT 1",
		},
		{
			name: "inline select",
			text: "I used SELECT sum(amount) FROM transactions; to total the period.",
			want: "SELECT sum(amount) FROM transactions;",
		},
		{
			name: "no sql",
			text: "Beverage sales declined because attach rates dropped at lunch.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSQL(tt.text))
		})
	}
}

func TestExtractTable(t *testing.T) {
	text := "Top stores by revenue:\n\n" +
		"| Store | Revenue | vs Plan |\n" +
		"|-------|---------|--------|\n" +
		"| #1619 | $320,433 | -6.1% |\n" +
		"| #1044 | $298,120 | +1.2% |\n\n" +
		"Store #1619 remains below plan."

	table := ExtractTable(text)

	require.NotNil(t, table)
	assert.Equal(t, []string{"Store", "Revenue", "vs Plan"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"#1619", "$320,433", "-6.1%"}, table.Rows[0])
	assert.Equal(t, []string{"#1044", "$298,120", "+1.2%"}, table.Rows[1])
}

func TestExtractTable_RaggedRowsNormalized(t *testing.T) {
	text := "| A | B |\n|---|---|\n| 1 |\n| 2 | 3 | 4 |"

	table := ExtractTable(text)

	require.NotNil(t, table)
	assert.Equal(t, []string{"1", ""}, table.Rows[0])
	assert.Equal(t, []string{"2", "3"}, table.Rows[1])
}

func TestExtractTable_NoTable(t *testing.T) {
	assert.Nil(t, ExtractTable("No tabular data in this answer."))
	// Header with no data rows is not a table.
	assert.Nil(t, ExtractTable("| A | B |\n|---|---|"))
}
