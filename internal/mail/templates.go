package mail

import (
	"fmt"
	"strings"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

// Тексты писем повторяют исходные уведомления сервиса

func TaskCompleted(user model.User, task model.Task) Message {
	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Task completed: %s", task.Title),
		Body: fmt.Sprintf(
			"Hello %s\n\nTask you are assigned was set as completed\n\nTask: %s\nDescription: %s\nStatus: %s\n",
			user.Username, task.Title, task.Description, task.Status),
	}
}

func TaskCommented(user model.User, task model.Task, comment string) Message {
	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Comment added to task: %s", task.Title),
		Body: fmt.Sprintf(
			"Hello %s\n\nA new comment was added to task you are assigned.\n\nTask: %s\nDescription: %s\nStatus: %s\nNew Comment: %s\n",
			user.Username, task.Title, task.Description, task.Status, comment),
	}
}

func TaskAssigned(user model.User, task model.Task) Message {
	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		Body: fmt.Sprintf(
			"Hello %s\n\nThis message is to inform you that you have been assigned to a new task. The task details are as follows:\n\nTask: %s\nDescription: %s\nStatus: %s\nCreated At: %s\n",
			user.Username, task.Title, task.Description, task.Status, task.CreatedAt.Format("2006-01-02 15:04")),
	}
}

// TopTasksReport - еженедельный отчет по задачам с наибольшим залогированным временем
func TopTasksReport(user model.User, tasks []model.TaskDuration) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s\n\nYour top tasks by logged time:\n\n", user.Username)
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s - %d min\n", i+1, t.Title, t.Duration)
	}

	return Message{
		To:      user.Email,
		Subject: "Top tasks weekly report",
		Body:    b.String(),
	}
}
