package versionchain

import (
	eng "github.com/reoring/versionchain/internal/engine"
)

// DetectJSONDuplicateKeysBytes is a thin wrapper that detects duplicate keys in
// JSON byte slices. The implementation delegates to internal/engine.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) Issues {
	si, _ := eng.DetectJSONDuplicateKeysBytes(data, toEngineDup(strict.OnDuplicateKey), maxIssues)
	return fromEngineIssues(si)
}

// DetectYAMLDuplicateKeysBytes is the YAML counterpart of
// DetectJSONDuplicateKeysBytes. Messages carry line:column positions.
func DetectYAMLDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) Issues {
	si, _ := eng.DetectYAMLDuplicateKeysBytes(data, toEngineDup(strict.OnDuplicateKey), maxIssues)
	return fromEngineIssues(si)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message})
	}
	return iss
}
