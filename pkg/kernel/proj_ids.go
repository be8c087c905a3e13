package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

type NotificationID string

func NewNotificationID(id string) NotificationID { return NotificationID(id) }
func (r NotificationID) String() string          { return string(r) }
func (r NotificationID) IsEmpty() bool           { return string(r) == "" }

type TaskID string

func NewTaskID(id string) TaskID { return TaskID(id) }
func (r TaskID) String() string  { return string(r) }
func (r TaskID) IsEmpty() bool   { return string(r) == "" }
