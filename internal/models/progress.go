package models

// CurrentVersion is the schema version of ProgressDocument.
const CurrentVersion = 2

// SubtopicProgress is the leaf record for one lesson.
type SubtopicProgress struct {
	Completed       bool    `json:"completed"`
	CompletedAt     *string `json:"completedAt"`               // RFC3339 timestamp
	QuizScore       *int    `json:"quizScore"`                 // 0..100, best score wins
	QuizCompletedAt *string `json:"quizCompletedAt,omitempty"` // RFC3339 timestamp
}

type TopicProgress struct {
	Subtopics map[string]SubtopicProgress `json:"subtopics"`
}

type PhaseProgress struct {
	Topics map[string]TopicProgress `json:"topics"`
}

// StudySchedule is the learner's configured pace for one roadmap.
type StudySchedule struct {
	StartDate        string `json:"startDate"` // YYYY-MM-DD
	StudyDaysPerWeek int    `json:"studyDaysPerWeek"`
}

type RoadmapProgress struct {
	StartedAt      string                   `json:"startedAt"` // RFC3339 timestamp
	Phases         map[string]PhaseProgress `json:"phases"`
	LastAccessed   string                   `json:"lastAccessed,omitempty"` // "phase/topic/subtopic"
	TotalTimeSpent int                      `json:"totalTimeSpent,omitempty"` // minutes
	Schedule       *StudySchedule           `json:"schedule,omitempty"`
}

type GlobalSettings struct {
	UserName string `json:"userName,omitempty"`
}

// ProgressDocument is the root persisted record of a learner's state across
// all roadmaps.
type ProgressDocument struct {
	Version        int                        `json:"version"`
	Roadmaps       map[string]RoadmapProgress `json:"roadmaps"`
	GlobalSettings GlobalSettings             `json:"globalSettings"`
}

// NewProgressDocument returns an empty current-version document.
func NewProgressDocument() *ProgressDocument {
	return &ProgressDocument{
		Version:  CurrentVersion,
		Roadmaps: make(map[string]RoadmapProgress),
	}
}

// Normalize ensures the top-level map is non-nil after deserialization.
func (d *ProgressDocument) Normalize() {
	if d.Roadmaps == nil {
		d.Roadmaps = make(map[string]RoadmapProgress)
	}
}

// Roadmap returns the progress entry for a roadmap id, if any.
func (d *ProgressDocument) Roadmap(roadmapID string) (RoadmapProgress, bool) {
	rp, ok := d.Roadmaps[roadmapID]
	return rp, ok
}

// EnsureRoadmap returns the roadmap entry, creating it with startedAt on
// first write.
func (d *ProgressDocument) EnsureRoadmap(roadmapID, startedAt string) RoadmapProgress {
	rp, ok := d.Roadmaps[roadmapID]
	if !ok {
		rp = RoadmapProgress{
			StartedAt: startedAt,
			Phases:    make(map[string]PhaseProgress),
		}
		d.Roadmaps[roadmapID] = rp
	}
	if rp.Phases == nil {
		rp.Phases = make(map[string]PhaseProgress)
		d.Roadmaps[roadmapID] = rp
	}
	return rp
}

// Subtopic reads a leaf entry. The second return value is false when any
// intermediate entry is missing, which callers treat as "not started".
func (d *ProgressDocument) Subtopic(roadmapID, phaseID, topicID, subtopicID string) (SubtopicProgress, bool) {
	rp, ok := d.Roadmaps[roadmapID]
	if !ok {
		return SubtopicProgress{}, false
	}
	pp, ok := rp.Phases[phaseID]
	if !ok {
		return SubtopicProgress{}, false
	}
	tp, ok := pp.Topics[topicID]
	if !ok {
		return SubtopicProgress{}, false
	}
	sp, ok := tp.Subtopics[subtopicID]
	return sp, ok
}

// SetSubtopic writes a leaf entry, lazily creating intermediate entries. The
// roadmap entry itself must already exist (see EnsureRoadmap).
func (d *ProgressDocument) SetSubtopic(roadmapID, phaseID, topicID, subtopicID string, sp SubtopicProgress) {
	rp := d.Roadmaps[roadmapID]
	if rp.Phases == nil {
		rp.Phases = make(map[string]PhaseProgress)
	}

	pp, ok := rp.Phases[phaseID]
	if !ok {
		pp = PhaseProgress{Topics: make(map[string]TopicProgress)}
	}
	if pp.Topics == nil {
		pp.Topics = make(map[string]TopicProgress)
	}

	tp, ok := pp.Topics[topicID]
	if !ok {
		tp = TopicProgress{Subtopics: make(map[string]SubtopicProgress)}
	}
	if tp.Subtopics == nil {
		tp.Subtopics = make(map[string]SubtopicProgress)
	}

	tp.Subtopics[subtopicID] = sp
	pp.Topics[topicID] = tp
	rp.Phases[phaseID] = pp
	d.Roadmaps[roadmapID] = rp
}
