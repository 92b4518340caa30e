// Package msgstore is the persistent chat-message boundary the job
// processor writes conversation turns through. The concrete message
// schema is owned by the backend; processors only see Save and History.
package msgstore
