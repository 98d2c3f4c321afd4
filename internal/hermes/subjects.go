package hermes

const (
	SubjectSessionWildcard = "apportion.session.>"
	SubjectCreatedAll      = "apportion.session.*." + KindCreated
	SubjectRankChangedAll  = "apportion.session.*." + KindRankChanged
	SubjectCalculatedAll   = "apportion.session.*." + KindWeightsCalculated

	StreamName   = "APPORTION_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// Event kinds, the last token of every session subject.
const (
	KindCreated           = "created"
	KindRankChanged       = "rank_changed"
	KindWeightsCalculated = "weights_calculated"
)

const sessionPrefix = "apportion.session."

func sessionSubject(sessionID, kind string) string {
	return sessionPrefix + sessionID + "." + kind
}

func SubjectSessionCreated(sessionID string) string {
	return sessionSubject(sessionID, KindCreated)
}
func SubjectRankChanged(sessionID string) string {
	return sessionSubject(sessionID, KindRankChanged)
}
func SubjectWeightsCalculated(sessionID string) string {
	return sessionSubject(sessionID, KindWeightsCalculated)
}
