// Package draft turns a therapy-session recording or transcript into an
// unencrypted journal draft using a generative model.
package draft

import (
	"context"

	"github.com/dmitrijs2005/ember/internal/client/models"
)

// Generator produces a journal draft from audio or text.
type Generator interface {
	FromAudio(ctx context.Context, audio []byte, mimeType string) (*models.Draft, error)
	FromTranscript(ctx context.Context, transcript string) (*models.Draft, error)
}

// SampleTranscript is a short session used by the demo command.
const SampleTranscript = `Therapist: Last time you mentioned the deadline at work. How did that week go?
Client: Honestly, worse than I expected. I stayed late every night and still felt like I was behind.
Therapist: What did "behind" feel like in your body?
Client: Tight chest. Like I was holding my breath the whole time.
Therapist: And when you finally handed the project in?
Client: Relief, for about an hour. Then I started worrying about the next one.
Therapist: It sounds like the finish line keeps moving. Whose voice sets it?
Client: ...Probably mine. My dad always said good enough isn't.
Therapist: What would you say to a friend who worked those hours?
Client: That they did more than enough. That they should rest.
Therapist: Could you try offering yourself that sentence this week, even once?
Client: I can try. Maybe I'll write it on a sticky note.`
