package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnalysis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{
			name: "severity marker",
			in:   "* **Severity:** High",
			want: []Block{{Kind: BlockSeverity, Level: "high", Text: "High"}},
		},
		{
			name: "remediation marker",
			in:   "* **Remediation:** Patch the library",
			want: []Block{{Kind: BlockRecommendation, Text: "Patch the library"}},
		},
		{
			name: "blank line dropped",
			in:   "first line\n\n   \nsecond line",
			want: []Block{{Kind: BlockPlain, Text: "first line"}, {Kind: BlockPlain, Text: "second line"}},
		},
		{
			name: "markdown heading",
			in:   "## Vulnerabilities Found",
			want: []Block{{Kind: BlockHeading, Text: "Vulnerabilities Found"}},
		},
		{
			name: "bold line heading",
			in:   "**Summary**",
			want: []Block{{Kind: BlockHeading, Text: "Summary"}},
		},
		{
			name: "heading with bold inside",
			in:   "## **Findings**",
			want: []Block{{Kind: BlockHeading, Text: "Findings"}},
		},
		{
			name: "labeled bullet",
			in:   "* **CVE-2021-23337** Command injection in lodash",
			want: []Block{{Kind: BlockBullet, Label: "CVE-2021-23337:", Text: "Command injection in lodash"}},
		},
		{
			name: "bullet without closing bold",
			in:   "* **unterminated label",
			want: []Block{{Kind: BlockBullet, Text: "**unterminated label"}},
		},
		{
			name: "severity without exact marker is dropped",
			in:   "* Severity: High",
			want: nil,
		},
		{
			name: "remediation without exact marker keeps raw line",
			in:   "* Remediation: upgrade",
			want: []Block{{Kind: BlockRecommendation, Text: "* Remediation: upgrade"}},
		},
		{
			name: "sub bullet",
			in:   "*   affected versions < 4.17.21",
			want: []Block{{Kind: BlockSubBullet, Text: "affected versions < 4.17.21"}},
		},
		{
			name: "numbered recommendation",
			in:   "1. Upgrade lodash to 4.17.21",
			want: []Block{{Kind: BlockRecommendation, Text: "1. Upgrade lodash to 4.17.21"}},
		},
		{
			name: "windows line endings",
			in:   "line one\r\nline two\r\n",
			want: []Block{{Kind: BlockPlain, Text: "line one"}, {Kind: BlockPlain, Text: "line two"}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAnalysis(tt.in))
		})
	}
}

func TestFormatAnalysisMixedDocumentKeepsOrder(t *testing.T) {
	text := `## Security Analysis
* **Package:** lodash
* **Severity:** Critical
*   Prototype pollution
* **Remediation:** Upgrade to 4.17.21

2. Run npm audit regularly
Closing remarks`

	kinds := []BlockKind{}
	for _, b := range FormatAnalysis(text) {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{
		BlockHeading,
		BlockBullet,
		BlockSeverity,
		BlockSubBullet,
		BlockRecommendation,
		BlockRecommendation,
		BlockPlain,
	}, kinds)
}
