// Package spotify describes the Spotify Web API endpoints used by aerial and the playback client
// built on them.
//
// Each endpoint is a constructor returning an [api.Spec]; the response types follow
// https://developer.spotify.com/documentation/web-api/reference/ but keep only the fields aerial
// prints. [Player] adds the checks the commands need before sending a playback command: an active
// device must exist and pause/resume must not be sent in the state they would produce.
package spotify
