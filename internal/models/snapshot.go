package models

// Snapshot is a full copy of the three collections at a point in time.
// Field names are the interchange document's top-level keys.
type Snapshot struct {
	Domains     []Domain         `json:"domains"`
	Tasks       []Task           `json:"tasks"`
	Completions []TaskCompletion `json:"completions"`
}

// Clone returns a copy that shares no backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Domains:     append([]Domain{}, s.Domains...),
		Tasks:       append([]Task{}, s.Tasks...),
		Completions: append([]TaskCompletion{}, s.Completions...),
	}
}

// Domain looks a domain up by id.
func (s Snapshot) Domain(id string) (Domain, bool) {
	for _, d := range s.Domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

// Task looks a task up by id.
func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// CompletionFor returns the completion of taskID on date, if any.
func (s Snapshot) CompletionFor(taskID, date string) (TaskCompletion, bool) {
	for _, c := range s.Completions {
		if c.TaskID == taskID && c.Date == date {
			return c, true
		}
	}
	return TaskCompletion{}, false
}

// TasksInDomain returns the tasks of domainID in slice order.
func (s Snapshot) TasksInDomain(domainID string) []Task {
	var out []Task
	for _, t := range s.Tasks {
		if t.DomainID == domainID {
			out = append(out, t)
		}
	}
	return out
}

// Orphans reports tasks whose domain is missing and completions whose task is
// missing. Completions of orphaned tasks are reported as orphans too.
func (s Snapshot) Orphans() (tasks []string, completions []string) {
	domains := make(map[string]bool, len(s.Domains))
	for _, d := range s.Domains {
		domains[d.ID] = true
	}
	live := make(map[string]bool, len(s.Tasks))
	for _, t := range s.Tasks {
		if domains[t.DomainID] {
			live[t.ID] = true
			continue
		}
		tasks = append(tasks, t.ID)
	}
	for _, c := range s.Completions {
		if !live[c.TaskID] {
			completions = append(completions, c.ID)
		}
	}
	return tasks, completions
}

// WithoutDomain removes the domain, its tasks and their completions.
func (s *Snapshot) WithoutDomain(id string) {
	domains := make([]Domain, 0, len(s.Domains))
	for _, d := range s.Domains {
		if d.ID != id {
			domains = append(domains, d)
		}
	}
	s.Domains = domains
	removed := make(map[string]bool)
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.DomainID == id {
			removed[t.ID] = true
			continue
		}
		tasks = append(tasks, t)
	}
	s.Tasks = tasks
	s.dropCompletions(func(c TaskCompletion) bool { return removed[c.TaskID] })
}

// WithoutTask removes the task and its completions.
func (s *Snapshot) WithoutTask(id string) {
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.Tasks = tasks
	s.dropCompletions(func(c TaskCompletion) bool { return c.TaskID == id })
}

// WithoutCompletion removes a single completion.
func (s *Snapshot) WithoutCompletion(id string) {
	s.dropCompletions(func(c TaskCompletion) bool { return c.ID == id })
}

// PutDomain replaces the domain with the same id or appends it.
func (s *Snapshot) PutDomain(d Domain) {
	for i := range s.Domains {
		if s.Domains[i].ID == d.ID {
			s.Domains[i] = d
			return
		}
	}
	s.Domains = append(s.Domains, d)
}

// PutTask replaces the task with the same id or appends it.
func (s *Snapshot) PutTask(t Task) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == t.ID {
			s.Tasks[i] = t
			return
		}
	}
	s.Tasks = append(s.Tasks, t)
}

// PutCompletion replaces the completion with the same id or appends it.
func (s *Snapshot) PutCompletion(c TaskCompletion) {
	for i := range s.Completions {
		if s.Completions[i].ID == c.ID {
			s.Completions[i] = c
			return
		}
	}
	s.Completions = append(s.Completions, c)
}

func (s *Snapshot) dropCompletions(drop func(TaskCompletion) bool) {
	out := make([]TaskCompletion, 0, len(s.Completions))
	for _, c := range s.Completions {
		if !drop(c) {
			out = append(out, c)
		}
	}
	s.Completions = out
}

// Normalize replaces nil collections with empty ones so the snapshot always
// encodes as three lists.
func (s *Snapshot) Normalize() {
	if s.Domains == nil {
		s.Domains = []Domain{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Completions == nil {
		s.Completions = []TaskCompletion{}
	}
}
