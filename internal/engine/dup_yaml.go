package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DetectYAMLDuplicateKeysBytes walks every document of a YAML stream as
// yaml.Node trees and reports duplicate mapping keys with their positions.
// Like the JSON variant it stops at the first duplicate when onDup is DupError.
func DetectYAMLDuplicateKeysBytes(data []byte, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore {
		return nil, nil
	}
	w := &yamlDupWalker{onDup: onDup, maxIssues: maxIssues}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return w.issues, nil
			}
			// Syntax errors are reported by the real decoder.
			return w.issues, nil
		}
		if w.walk(&root, "") {
			return w.issues, nil
		}
	}
}

type yamlDupWalker struct {
	onDup     DuplicateStrictness
	maxIssues int
	issues    []SimpleIssue
}

// walk returns true when detection should stop.
func (w *yamlDupWalker) walk(n *yaml.Node, path string) bool {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if w.walk(c, path) {
				return true
			}
		}
	case yaml.MappingNode:
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			child := JoinPointer(path, k.Value)
			if pos, dup := first[k.Value]; dup {
				if w.report(SimpleIssue{
					Code:    "duplicate_key",
					Path:    child,
					Message: fmt.Sprintf("key '%s' duplicated at %d:%d (first at %d:%d)", k.Value, k.Line, k.Column, pos[0], pos[1]),
				}) {
					return true
				}
				continue
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			if w.walk(v, child) {
				return true
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if w.walk(c, JoinPointer(path, strconv.Itoa(i))) {
				return true
			}
		}
	}
	return false
}

func (w *yamlDupWalker) report(si SimpleIssue) bool {
	if w.maxIssues == 0 {
		return false
	}
	w.issues = append(w.issues, si)
	if w.maxIssues > 0 && len(w.issues) >= w.maxIssues {
		w.issues = append(w.issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
		return true
	}
	return w.onDup == DupError
}
