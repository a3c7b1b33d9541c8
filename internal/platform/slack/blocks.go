package slack

import (
	"fmt"

	"github.com/slack-go/slack"

	leaderboardRepo "starboard/internal/modules/leaderboard/repository"
	leaderboardService "starboard/internal/modules/leaderboard/service"
)

func reportBlocks(report *leaderboardService.Report, emoji string) []slack.Block {
	blocks := userBlocks("Top 10 Star Receivers", report.TopReceivers, emoji)
	blocks = append(blocks, userBlocks("Top 10 Starrers (Wall of Shame)", report.TopStarrers, emoji)...)

	blocks = append(blocks, slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, "Top 5 Starred Posts", true, false)))
	for _, post := range report.TopPosts {
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(nil, []*slack.TextBlockObject{
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("%s *%d* <#%s> — <@%s>: %s", emoji, post.Count, post.ChannelID, post.AuthorID, post.Permalink),
					false, false),
			}, nil))
	}

	return blocks
}

func userBlocks(title string, ranks []leaderboardRepo.ReceiverRank, emoji string) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
	}
	if len(ranks) == 0 {
		return blocks
	}

	fields := make([]*slack.TextBlockObject, 0, len(ranks))
	for _, rank := range ranks {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("<@%s> — %d %s", rank.AuthorID, rank.Count, emoji), false, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	return blocks
}
