// Package moderationservice contains the content moderation pipeline:
// analysis, the review queue, moderator decisions and the appeal workflow.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package moderationservice
