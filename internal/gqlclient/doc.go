// Package gqlclient implements the outbound request layer of the client.
//
// It defines the Client interface consumed by the session, upload and
// receipts components, and an HTTP implementation that executes GraphQL
// documents against the single configured service endpoint. The bearer
// credential, when present in the store, is attached to every request;
// its absence is not an error; the service decides the authorization
// outcome.
package gqlclient
