package models

// RecordKind classifies how a file's content was captured in a snapshot.
type RecordKind int

const (
	KindFull RecordKind = iota
	KindBinaryOmitted
	KindSizeOmitted
	KindSkeletonized
	KindReadError
)

func (k RecordKind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindBinaryOmitted:
		return "binary-omitted"
	case KindSizeOmitted:
		return "size-omitted"
	case KindSkeletonized:
		return "skeletonized"
	case KindReadError:
		return "read-error"
	default:
		return "unknown"
	}
}

// FileRecord holds the captured content (or placeholder) for a single file.
type FileRecord struct {
	Kind    RecordKind
	Content string
}

// Snapshot is the ordered, classified view of a workspace handed to the model.
// Files preserves traversal order; Records maps each path in Files to its
// record, with exactly one record per path.
type Snapshot struct {
	Files   []string
	Records map[string]FileRecord
}

// Add appends a file record, keeping Files and Records in step. A path that
// is already present only has its record replaced.
func (s *Snapshot) Add(relPath string, record FileRecord) {
	if s.Records == nil {
		s.Records = make(map[string]FileRecord)
	}
	if _, exists := s.Records[relPath]; !exists {
		s.Files = append(s.Files, relPath)
	}
	s.Records[relPath] = record
}
