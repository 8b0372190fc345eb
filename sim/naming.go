package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// NameMustBeValid panics if the name is not a dot-separated list of
// capitalized elements, each optionally followed by bracketed indices, such
// as "Platform.Target[2]".
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %s", name, err))
	}
}

func validateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		base, indices, found := strings.Cut(elem, "[")

		if base == "" {
			return fmt.Errorf("empty element")
		}

		if base[0] < 'A' || base[0] > 'Z' {
			return fmt.Errorf("element %q must start with a capital letter",
				base)
		}

		if strings.ContainsAny(base, "_-'\"]") {
			return fmt.Errorf("element %q has invalid characters", base)
		}

		if found {
			if err := validateIndices("[" + indices); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateIndices(s string) error {
	for s != "" {
		if s[0] != '[' {
			return fmt.Errorf("unexpected %q", s)
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			return fmt.Errorf("unmatched bracket")
		}

		if _, err := strconv.Atoi(s[1:end]); err != nil {
			return fmt.Errorf("index %q is not an integer", s[1:end])
		}

		s = s[end+1:]
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
