package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeyInfo(t *testing.T) {
	text := "In 2023 revenue grew 15.5% to reach 3 million. John Smith joined on March 5th, 2024 and again on 04/12/2024. What comes next? In conclusion, growth is strong."

	info := ExtractKeyInfo(text)

	assert.Equal(t, "2023", info.Numbers[0])
	assert.Contains(t, info.Numbers, "15.5")
	assert.Contains(t, info.Numbers, "3")
	assert.Equal(t, []string{"March 5th, 2024", "04/12/2024"}, info.Dates)
	assert.Equal(t, []string{"John Smith"}, info.Names)
	require.Len(t, info.Questions, 1)
	assert.Contains(t, info.Questions[0], "What comes next?")
	assert.Equal(t, []string{"In conclusion, growth is strong."}, info.Conclusions)
}

func TestExtractKeyInfo_Empty(t *testing.T) {
	info := ExtractKeyInfo("")
	assert.Empty(t, info.Numbers)
	assert.Empty(t, info.Dates)
	assert.Empty(t, info.Names)
	assert.Empty(t, info.Questions)
	assert.Empty(t, info.Conclusions)
}

func TestExtractKeyInfo_KeepsDuplicates(t *testing.T) {
	info := ExtractKeyInfo("Ada Lovelace met Ada Lovelace. 7 and 7.")
	assert.Equal(t, []string{"Ada Lovelace", "Ada Lovelace"}, info.Names)
	assert.Equal(t, []string{"7", "7"}, info.Numbers)
}
