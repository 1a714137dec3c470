package roadmap

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// The dashboard stores its own fields (assignees, notes, shared resources, debt
// ids...) next to the ones modelled here. Each record keeps those in Extra so a
// scan rewrites the document without dropping them.

type (
	roadmapJSON     Roadmap
	projectInfoJSON ProjectInfo
	featureJSON     Feature
	taskJSON        Task
	metricsJSON     Metrics
	debtJSON        TechnicalDebt
	gitInfoJSON     GitInfo
)

var (
	roadmapFields     = knownFields(reflect.TypeOf(roadmapJSON{}))
	projectInfoFields = knownFields(reflect.TypeOf(projectInfoJSON{}))
	featureFields     = knownFields(reflect.TypeOf(featureJSON{}))
	taskFields        = knownFields(reflect.TypeOf(taskJSON{}))
	metricsFields     = knownFields(reflect.TypeOf(metricsJSON{}))
	debtFields        = knownFields(reflect.TypeOf(debtJSON{}))
	gitInfoFields     = knownFields(reflect.TypeOf(gitInfoJSON{}))
)

func (r *Roadmap) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[roadmapJSON](data, roadmapFields)
	if err != nil || v == nil {
		return err
	}
	*r = Roadmap(*v)
	r.Extra = extra
	return nil
}

func (r Roadmap) MarshalJSON() ([]byte, error) {
	return marshalRecord(roadmapJSON(r), r.Extra)
}

func (p *ProjectInfo) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[projectInfoJSON](data, projectInfoFields)
	if err != nil || v == nil {
		return err
	}
	*p = ProjectInfo(*v)
	p.Extra = extra
	return nil
}

func (p ProjectInfo) MarshalJSON() ([]byte, error) {
	return marshalRecord(projectInfoJSON(p), p.Extra)
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[featureJSON](data, featureFields)
	if err != nil || v == nil {
		return err
	}
	*f = Feature(*v)
	f.Extra = extra
	return nil
}

func (f Feature) MarshalJSON() ([]byte, error) {
	return marshalRecord(featureJSON(f), f.Extra)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[taskJSON](data, taskFields)
	if err != nil || v == nil {
		return err
	}
	*t = Task(*v)
	t.Extra = extra
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	return marshalRecord(taskJSON(t), t.Extra)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[metricsJSON](data, metricsFields)
	if err != nil || v == nil {
		return err
	}
	*m = Metrics(*v)
	m.Extra = extra
	return nil
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	return marshalRecord(metricsJSON(m), m.Extra)
}

func (d *TechnicalDebt) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[debtJSON](data, debtFields)
	if err != nil || v == nil {
		return err
	}
	*d = TechnicalDebt(*v)
	d.Extra = extra
	return nil
}

func (d TechnicalDebt) MarshalJSON() ([]byte, error) {
	return marshalRecord(debtJSON(d), d.Extra)
}

func (g *GitInfo) UnmarshalJSON(data []byte) error {
	v, extra, err := unmarshalRecord[gitInfoJSON](data, gitInfoFields)
	if err != nil || v == nil {
		return err
	}
	*g = GitInfo(*v)
	g.Extra = extra
	return nil
}

func (g GitInfo) MarshalJSON() ([]byte, error) {
	return marshalRecord(gitInfoJSON(g), g.Extra)
}

// unmarshalRecord decodes data into T and returns the object members that T does
// not declare. known holds lower-cased field names. A JSON null yields a nil record.
func unmarshalRecord[T any](data []byte, known map[string]bool) (*T, map[string]json.RawMessage, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, nil, err
	}
	var extra map[string]json.RawMessage
	for k, raw := range members {
		// encoding/json matches member names case-insensitively.
		if known[strings.ToLower(k)] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = raw
	}
	return &v, extra, nil
}

// marshalRecord encodes v and appends extra members after the declared ones,
// sorted by key.
func marshalRecord(v any, extra map[string]json.RawMessage) ([]byte, error) {
	obj, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return obj, nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	empty := len(obj) == 2
	for _, k := range keys {
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func knownFields(t reflect.Type) map[string]bool {
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = true
	}
	return names
}
