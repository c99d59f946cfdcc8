package report

import (
	"regexp"
	"strings"
)

type BlockKind string

const (
	BlockHeading        BlockKind = "heading"
	BlockBullet         BlockKind = "bullet"
	BlockSeverity       BlockKind = "severity"
	BlockRecommendation BlockKind = "recommendation"
	BlockSubBullet      BlockKind = "sub_bullet"
	BlockPlain          BlockKind = "plain"
)

// Block é uma unidade tipada do texto de análise. Label só é usado por
// BlockBullet e Level só por BlockSeverity.
type Block struct {
	Kind  BlockKind
	Label string
	Text  string
	Level string
}

var (
	headingPrefix     = regexp.MustCompile(`^##\s*`)
	labeledBullet     = regexp.MustCompile(`^\*\s*\*\*(.*?)\*\*\s*(.*)`)
	bulletPrefix      = regexp.MustCompile(`^\*\s*`)
	severityMarker    = regexp.MustCompile(`\*\*Severity:\*\*\s*(\w+)`)
	remediationMarker = regexp.MustCompile(`^\*\s*\*\*Remediation:\*\*\s*`)
	numberedLine      = regexp.MustCompile(`^\d+\.`)
)

// FormatAnalysis quebra o texto em linhas, descarta as vazias e classifica cada
// uma. A primeira regra que casa vence.
func FormatAnalysis(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b, ok := classify(line); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func classify(line string) (Block, bool) {
	if strings.HasPrefix(line, "##") || (strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**")) {
		text := headingPrefix.ReplaceAllString(line, "")
		text = strings.TrimSuffix(strings.TrimPrefix(text, "**"), "**")
		return Block{Kind: BlockHeading, Text: text}, true
	}

	if strings.HasPrefix(line, "* **") {
		m := labeledBullet.FindStringSubmatch(line)
		switch {
		case m == nil:
			return Block{Kind: BlockBullet, Text: bulletPrefix.ReplaceAllString(line, "")}, true
		case !isMarkerLabel(m[1]):
			return Block{Kind: BlockBullet, Label: m[1] + ":", Text: m[2]}, true
		}
		// "* **Severity:** ..." e "* **Remediation:** ..." seguem para as regras abaixo.
	}

	if strings.HasPrefix(line, "*") && strings.Contains(line, "Severity:") {
		m := severityMarker.FindStringSubmatch(line)
		if m == nil {
			// Sem o marcador "**Severity:**" a linha é descartada.
			return Block{}, false
		}
		return Block{Kind: BlockSeverity, Level: strings.ToLower(m[1]), Text: m[1]}, true
	}

	if strings.HasPrefix(line, "*") && strings.Contains(line, "Remediation:") {
		text := strings.TrimSpace(remediationMarker.ReplaceAllString(line, ""))
		return Block{Kind: BlockRecommendation, Text: text}, true
	}

	if strings.HasPrefix(line, "*") {
		return Block{Kind: BlockSubBullet, Text: bulletPrefix.ReplaceAllString(line, "")}, true
	}

	if numberedLine.MatchString(line) {
		return Block{Kind: BlockRecommendation, Text: line}, true
	}

	return Block{Kind: BlockPlain, Text: line}, true
}

func isMarkerLabel(label string) bool {
	label = strings.TrimSpace(label)
	return label == "Severity:" || label == "Remediation:"
}
