package crawler

// Frontier is the breadth-first queue of a crawl run together with its
// visited set. A URL moves from unvisited to queued when it is enqueued and
// is never queued again during the run, whether its fetch succeeds or not.
//
// A Frontier is not safe for concurrent use.
type Frontier struct {
	visited map[string]struct{}
	queue   []string
	head    int
}

// NewFrontier returns an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{visited: make(map[string]struct{})}
}

// Seed enqueues the start URL of a crawl run.
func (f *Frontier) Seed(url string) {
	f.Enqueue(url)
}

// Enqueue marks url as visited and appends it to the queue in one step. It
// returns false, leaving the frontier untouched, when url was already
// visited.
func (f *Frontier) Enqueue(url string) bool {
	if _, seen := f.visited[url]; seen {
		return false
	}

	f.visited[url] = struct{}{}
	f.queue = append(f.queue, url)

	return true
}

// Dequeue pops the oldest queued URL.
func (f *Frontier) Dequeue() (string, bool) {
	if f.head == len(f.queue) {
		return "", false
	}

	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Compact once the consumed prefix dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]string(nil), f.queue[f.head:]...)
		f.head = 0
	}

	return url, true
}

// Visited reports whether url was ever enqueued.
func (f *Frontier) Visited(url string) bool {
	_, seen := f.visited[url]

	return seen
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
