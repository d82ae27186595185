package studio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studycircle/studycircle/internal/app/studio"
	"github.com/studycircle/studycircle/internal/domain"
)

func TestBuildMessagesWithContextAndHistory(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "第一稿"},
		{Role: domain.RoleAssistant, Content: "第一轮反馈"},
	}

	msgs := studio.BuildMessages("你是审核员。", "蒸汽机发明于18世纪。", history, "工业革命改变了社会。")

	require.Len(t, msgs, 5)

	require.Equal(t, domain.RoleSystem, msgs[0].Role)
	require.Equal(t, "你是审核员。", msgs[0].Content)

	require.Equal(t, domain.RoleSystem, msgs[1].Role)
	require.Contains(t, msgs[1].Content, "蒸汽机发明于18世纪。")
	require.Contains(t, msgs[1].Content, "---开始资料---")

	// History turns appear in between, unmodified and in order.
	require.Equal(t, history[0], msgs[2])
	require.Equal(t, history[1], msgs[3])

	last := msgs[len(msgs)-1]
	require.Equal(t, domain.RoleUser, last.Role)
	require.Contains(t, last.Content, "工业革命改变了社会。")
}

func TestBuildMessagesWithoutContext(t *testing.T) {
	msgs := studio.BuildMessages("系统提示", "", nil, "草稿")

	require.Len(t, msgs, 2)
	require.Equal(t, domain.RoleSystem, msgs[0].Role)
	require.Equal(t, domain.RoleUser, msgs[1].Role)
	require.Contains(t, msgs[1].Content, "草稿")
}

func TestBuildMessagesDoesNotMutateHistory(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "原始内容"},
	}

	_ = studio.BuildMessages("提示", "资料", history, "新草稿")

	require.Equal(t, []domain.Turn{{Role: domain.RoleUser, Content: "原始内容"}}, history)
}
