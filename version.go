package participant

// Version is reported as the service version in traces.
const Version = "0.3.0"
