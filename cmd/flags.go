package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

var validGroups = []string{"copilot", "claude", "issue-template"}

// groupsValue is a pflag.Value for --group that validates each artifact group
// at parse time, so typos fail before any rendering happens.
type groupsValue struct {
	groups *[]string
}

var _ pflag.Value = (*groupsValue)(nil)

func newGroupsValue(groups *[]string) *groupsValue {
	return &groupsValue{groups: groups}
}

func (v *groupsValue) String() string {
	if v.groups == nil {
		return ""
	}
	return strings.Join(*v.groups, ",")
}

func (v *groupsValue) Type() string { return "group" }

func (v *groupsValue) Set(raw string) error {
	for _, group := range strings.Split(raw, ",") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		if !isValidGroup(group) {
			return fmt.Errorf("invalid group %q, must be one of: %s",
				group, strings.Join(validGroups, ", "))
		}
		*v.groups = append(*v.groups, group)
	}
	return nil
}

func isValidGroup(group string) bool {
	for _, valid := range validGroups {
		if group == valid {
			return true
		}
	}
	return false
}
