package logging

import "sync"

// Record is one captured log call.
type Record struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// Recorder is a Logger that keeps every entry in memory. Tests use it to
// assert on what a component logged.
type Recorder struct {
	mu      *sync.Mutex
	records *[]Record
	fields  []Field
	level   Level
}

// NewRecorder creates an empty recorder capturing DebugLevel and above.
func NewRecorder() *Recorder {
	return &Recorder{
		mu:      &sync.Mutex{},
		records: &[]Record{},
		level:   DebugLevel,
	}
}

func (r *Recorder) add(level Level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level < r.level {
		return
	}
	m := make(map[string]any, len(r.fields)+len(fields))
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	*r.records = append(*r.records, Record{Level: level, Message: msg, Fields: m})
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.add(DebugLevel, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.add(InfoLevel, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.add(WarnLevel, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.add(ErrorLevel, msg, fields) }

// With returns a recorder sharing the same record buffer.
func (r *Recorder) With(fields ...Field) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Recorder{
		mu:      r.mu,
		records: r.records,
		fields:  append(append([]Field{}, r.fields...), fields...),
		level:   r.level,
	}
}

func (r *Recorder) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

func (r *Recorder) GetLevel() Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// Records returns a copy of everything captured so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), (*r.records)...)
}

// Messages returns the messages captured at the given level.
func (r *Recorder) Messages(level Level) []string {
	msgs := make([]string, 0)
	for _, rec := range r.Records() {
		if rec.Level == level {
			msgs = append(msgs, rec.Message)
		}
	}
	return msgs
}
