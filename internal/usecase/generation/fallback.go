package generation

import (
	"fmt"

	"github.com/futig/resomate/internal/entity"
)

// The builders below are the terminal tier: no I/O, no parsing, only the request's
// topic, country and committee substituted into fixed text.

func fallbackResolution(params entity.GenerationParams) *entity.ResolutionContent {
	preamble := []string{
		fmt.Sprintf("Recognizing the urgent need to address %s through international cooperation", params.Topic),
		fmt.Sprintf("Noting with concern the challenges the international community faces regarding %s", params.Topic),
		fmt.Sprintf("Acknowledging the role of %s in advancing sustainable solutions", params.Country),
		fmt.Sprintf("Mindful of the mandate entrusted to the %s", params.Committee),
		"Emphasizing the importance of multilateral dialogue",
		"Reaffirming the purposes and principles of the Charter of the United Nations",
	}

	operative := []string{
		fmt.Sprintf("Calls upon all Member States to strengthen their commitment to addressing %s", params.Topic),
		"Requests the Secretary-General to establish a comprehensive framework for action",
		"Encourages international cooperation and the sharing of knowledge among nations",
		"Decides to allocate the resources necessary for the implementation of this resolution",
		"Invites all stakeholders to participate actively in the proposed initiatives",
	}

	content := &entity.ResolutionContent{
		Preamble:  make([]entity.PreambleEntry, 0, len(preamble)),
		Operative: make([]entity.OperativeEntry, 0, len(operative)),
	}
	for _, text := range preamble {
		content.Preamble = append(content.Preamble, entity.PreambleEntry{Type: entity.PreambleClause, Text: text})
	}
	for i, text := range operative {
		content.Operative = append(content.Operative, entity.OperativeEntry{Number: i + 1, Text: text, SubClauses: []entity.SubClause{}})
	}

	return content
}

func fallbackSpeech(params entity.GenerationParams) *entity.SpeechContent {
	country, topic := params.Country, params.Topic

	body := fmt.Sprintf(`Honorable Chair, distinguished delegates,

%[1]s addresses the %[3]s today on the critical issue of %[2]s. This matter requires our immediate attention and collective action.

Our delegation recognizes that %[2]s presents both challenges and opportunities for the international community. We must work together towards sustainable solutions that benefit all Member States.

%[1]s proposes a comprehensive approach:

First, strengthening international cooperation through enhanced dialogue and partnership.

Second, implementing evidence-based policies that address the root causes of this issue.

Third, ensuring adequate resources and technical assistance for all nations, particularly developing countries.

Fourth, establishing clear monitoring and evaluation frameworks to track our progress.

Through unity and shared responsibility we can overcome the challenges posed by %[2]s. %[1]s stands ready to work with all delegations to achieve meaningful results.

Thank you, Chair.`, country, topic, params.Committee)

	return &entity.SpeechContent{
		DraftSpeech: entity.DraftSpeech{
			Title: fmt.Sprintf("%s's Position on %s", country, topic),
			Body:  body,
		},
		RhetoricInserts: rhetoricDevices(topic),
	}
}

func fallbackRhetoric(params entity.GenerationParams) *entity.RhetoricContent {
	return &entity.RhetoricContent{Devices: rhetoricDevices(params.Topic)}
}

func rhetoricDevices(topic string) []entity.RhetoricDevice {
	return []entity.RhetoricDevice{
		{
			Type:     entity.RhetoricQuestion,
			Headline: "Questions that challenge the status quo",
			Examples: []string{
				fmt.Sprintf("How can we justify inaction on %s when the stakes are so high?", topic),
				fmt.Sprintf("What will future generations say if we fail to address %s today?", topic),
				"Can we call ourselves leaders if we ignore this issue?",
			},
		},
		{
			Type:     entity.RhetoricRepetition,
			Headline: "Repetition that reinforces our commitment",
			Examples: []string{
				"We must act with courage, with unity, with urgency.",
				"This is our moment, our responsibility, our opportunity to lead.",
				"Every day we delay, every hour we hesitate, the cost grows.",
			},
		},
		{
			Type:     entity.RhetoricEmotive,
			Headline: "Appeals to human dignity and shared values",
			Examples: []string{
				fmt.Sprintf("Behind every statistic on %s is a human life and a future at stake.", topic),
				"We speak not only as diplomats but as guardians of human dignity.",
				"The eyes of history are upon us, and we must not look away.",
			},
		},
		{
			Type:     entity.RhetoricContrast,
			Headline: "Contrasts that clarify the choice before us",
			Examples: []string{
				"We can choose progress over stagnation, hope over despair.",
				"While others debate, we must act; while others hesitate, we must lead.",
				fmt.Sprintf("The question is not whether we can afford to act on %s, but whether we can afford not to.", topic),
			},
		},
	}
}
