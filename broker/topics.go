package broker

import "strings"

const subjectPrefix = "events."

// SubjectFor returns the NATS subject an event type is published on.
func SubjectFor(eventType string) string {
	return subjectPrefix + eventType
}

// EventTypeFromSubject reverses SubjectFor.
func EventTypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, subjectPrefix)
}

// AllEventsSubject matches every published event.
const AllEventsSubject = subjectPrefix + ">"
