package engine

import (
	"encoding/base64"
	"fmt"
	"strings"

	"retrack/internal/rules"
)

const markerPrefix = "retrack"

// Token encodes the rule set's effective content reversibly. Equivalent
// documents collapse to the same token, so editing the rules invalidates
// any marker produced before the edit.
func Token(rs rules.RuleSet) (string, error) {
	canonical, err := rs.Canonical()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(canonical)), nil
}

// Watermark returns the bracketed marker stamped into output metadata,
// e.g. "[retrack eyJ...]".
func Watermark(rs rules.RuleSet) (string, error) {
	token, err := Token(rs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s %s]", markerPrefix, token), nil
}

// AlreadyProcessed reports whether the marker text already carries this
// rule set's watermark. A match means the file went through the engine
// with these exact rules and must not be processed again.
func AlreadyProcessed(markerText string, rs rules.RuleSet) (bool, error) {
	if strings.TrimSpace(markerText) == "" {
		return false, nil
	}
	mark, err := Watermark(rs)
	if err != nil {
		return false, err
	}
	return strings.Contains(markerText, mark), nil
}
