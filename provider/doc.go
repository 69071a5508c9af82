// Package provider selects the embedding provider from configuration and
// puts one guarded interface in front of it.
//
// The adapter rejects blank text before dispatch, reports an unusable
// provider as core.ErrConfiguration, classifies call failures as
// core.ErrProviderCall, and answers queries through the answer package.
package provider
