package annotation

import (
	"errors"
	"sort"
)

//Registry maps every distinct subject label seen across all input videos to a
//stable zero-based class index. Indices follow lexicographic label order, so the
//mapping is identical no matter in which order subjects appear in the input.
//Built once before any export and read-only afterwards
type Registry struct {
	labels  []string
	indices map[string]int
}

//BuildRegistry collects the distinct labels of all subject tracks. It fails when
//a track does not carry exactly one label or when no labels are found at all
func BuildRegistry(videos []VideoAnnotation) (*Registry, error) {
	set := make(map[string]struct{})
	for _, video := range videos {
		for _, track := range video.Box {
			label, err := track.Label()
			if err != nil {
				return nil, err
			}
			set[label] = struct{}{}
		}
	}

	if len(set) == 0 {
		return nil, errors.New("BuildRegistry: No labels found in any annotation")
	}

	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	indices := make(map[string]int, len(labels))
	for i, label := range labels {
		indices[label] = i
	}

	return &Registry{labels: labels, indices: indices}, nil
}

//Index returns the class index assigned to given label
func (r *Registry) Index(label string) (int, bool) {
	i, ok := r.indices[label]
	return i, ok
}

//Labels returns all labels in index order
func (r *Registry) Labels() []string {
	return r.labels
}

//Len returns the number of registered labels
func (r *Registry) Len() int {
	return len(r.labels)
}
