package events

// Topics lists every topic the service produces to.
func Topics() []string {
	return []string{EmployeeCreatedTopic, PayslipGeneratedTopic}
}
