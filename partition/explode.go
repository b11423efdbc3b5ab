package partition

import "github.com/pkg/errors"

// KeyDelimiter joins per-dimension keys of a two-dimensional partition
// into a single flat key. Downstream consumers rely on this format.
const KeyDelimiter = "|"

// ExplodePartitionKeysInSelection flattens a 1- or 2-dimensional key
// selection into (key, state) pairs via cross-product, joining
// two-dimensional keys with KeyDelimiter. For two selections the outer
// loop runs over the first selection's keys and the inner over the
// second's, which fixes the output order.
//
// Selections over more than two dimensions are rejected by design.
func ExplodePartitionKeysInSelection(
	selections []Selection,
	stateForKey func(dimensionKeys []string) State,
) ([]KeyState, error) {
	return ExplodeWithDelimiter(selections, stateForKey, KeyDelimiter)
}

// ExplodeWithDelimiter is ExplodePartitionKeysInSelection with a custom
// key delimiter.
func ExplodeWithDelimiter(
	selections []Selection,
	stateForKey func(dimensionKeys []string) State,
	delimiter string,
) ([]KeyState, error) {
	switch len(selections) {
	case 0:
		return nil, nil

	case 1:
		result := make([]KeyState, 0, len(selections[0].SelectedKeys))
		for _, key := range selections[0].SelectedKeys {
			result = append(result, KeyState{
				PartitionKey: key,
				State:        stateForKey([]string{key}),
			})
		}
		return result, nil

	case 2:
		result := make([]KeyState, 0, len(selections[0].SelectedKeys)*len(selections[1].SelectedKeys))
		for _, key := range selections[0].SelectedKeys {
			for _, subKey := range selections[1].SelectedKeys {
				result = append(result, KeyState{
					PartitionKey: key + delimiter + subKey,
					State:        stateForKey([]string{key, subKey}),
				})
			}
		}
		return result, nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedDimensionality,
			"%d dimensions selected", len(selections))
	}
}
