package metrics

const Namespace = "clubhouse"
