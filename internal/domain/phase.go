package domain

// Phase is the explicit workflow state of one participant. It is derived from the
// user record and the user's submissions, never stored.
//
//	Unregistered -> Registered -> FlowRandom | FlowOwn
//	FlowRandom -> Assigned (draw)
//	FlowOwn -> IdeaPending -> IdeaRejected -> IdeaPending ... -> Assigned (approval)
//	Assigned -> Completed
type Phase string

const (
	PhaseUnregistered Phase = "unregistered"
	PhaseRegistered   Phase = "registered"
	PhaseFlowRandom   Phase = "flow_random"
	PhaseFlowOwn      Phase = "flow_own"
	PhaseIdeaPending  Phase = "idea_pending"
	PhaseIdeaRejected Phase = "idea_rejected"
	PhaseAssigned     Phase = "assigned"
	PhaseCompleted    Phase = "completed"

	// PhaseApprovedWithoutTopic should not occur: the latest submission was
	// approved but the user carries no topic.
	PhaseApprovedWithoutTopic Phase = "approved_without_topic"
)

func (p Phase) String() string { return string(p) }

// PhaseOf derives the phase of the user registered under key.
func (s *State) PhaseOf(key string) Phase {
	u := s.Users[key]
	if u == nil {
		return PhaseUnregistered
	}
	if u.IsCompleted() {
		return PhaseCompleted
	}
	if u.HasTopic() {
		return PhaseAssigned
	}
	if s.PendingSubmission(key) != nil {
		return PhaseIdeaPending
	}
	if latest := s.LatestSubmission(key); latest != nil {
		switch latest.Status {
		case SubmissionRejected:
			return PhaseIdeaRejected
		case SubmissionApproved:
			return PhaseApprovedWithoutTopic
		}
	}
	switch u.Flow {
	case FlowRandom:
		return PhaseFlowRandom
	case FlowOwn:
		return PhaseFlowOwn
	}
	return PhaseRegistered
}
