package criteria

import (
	"fmt"
	"sort"
	"strings"

	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/errors"
)

// FromInput builds a criteria from a map of user-supplied input, one
// condition per field known to the model's metadata. String-typed fields
// produce a LIKE condition with the value wrapped in wildcards; every other
// type produces an equality condition. Fields with a nil or empty-string
// value, and fields the metadata does not know, are skipped silently. The
// per-field conditions are combined with operator ("AND" when empty) and the
// model is set unconditionally, even for empty input.
func FromInput(container core.Container, modelName string, data map[string]any, operator string) (*Criteria, error) {
	if container == nil {
		return nil, errors.New("FromInput", modelName, errors.ErrNoContainer)
	}
	if operator == "" {
		operator = "AND"
	}

	c := New(container).SetModel(modelName)
	if len(data) == 0 {
		return c, nil
	}

	metadata := container.ModelsMetadata()
	if metadata == nil {
		return nil, errors.New("FromInput", modelName,
			fmt.Errorf("%w: modelsMetadata", errors.ErrServiceNotResolved))
	}

	dataTypes, err := metadata.DataTypes(modelName)
	if err != nil {
		return nil, err
	}
	columnMap := metadata.ReverseColumnMap(modelName)

	// Map iteration order is random; sort the input so generated conditions
	// are stable.
	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var conditions []string
	bind := make(map[string]any)

	for _, field := range fields {
		value := data[field]
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}

		column := field
		if columnMap != nil {
			if mapped, ok := columnMap[field]; ok {
				column = mapped
			}
		}

		fieldType, known := dataTypes[column]
		if !known {
			continue
		}

		if fieldType == core.FieldTypeString {
			conditions = append(conditions, fmt.Sprintf("%s LIKE :%s:", column, column))
			bind[column] = fmt.Sprintf("%%%v%%", value)
			continue
		}

		conditions = append(conditions, fmt.Sprintf("%s = :%s:", column, column))
		bind[column] = value
	}

	if len(conditions) > 0 {
		joined := strings.Join(conditions, " "+operator+" ")
		c.Where(joined, bind, nil)
	}
	return c, nil
}
