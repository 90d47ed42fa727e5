package sheldon

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// pinReference resolves a GitReference against an open repository to a
// single commit hash (spec.md §4.1). It is deterministic for a fixed
// repository state: re-pinning the same reference yields the same hash.
func pinReference(repo *git.Repository, ref GitReference) (plumbing.Hash, error) {
	switch ref.Kind {
	case ReferenceBranch:
		r, err := repo.Reference(plumbing.NewBranchReferenceName(ref.Value), true)
		if err != nil {
			return plumbing.ZeroHash, wrap(KindReferenceNotFound, err, "failed to find branch `%s`", ref.Value)
		}
		if r.Hash().IsZero() {
			return plumbing.ZeroHash, wrap(KindReferenceNotFound, nil, "branch `%s` does not have a target", ref.Value)
		}
		return r.Hash(), nil

	case ReferenceTag:
		r, err := repo.Reference(plumbing.NewTagReferenceName(ref.Value), true)
		if err != nil {
			return plumbing.ZeroHash, wrap(KindReferenceNotFound, err, "failed to find tag `%s`", ref.Value)
		}
		return peelToCommit(repo, r.Hash())

	case ReferenceRevision:
		hash, err := repo.ResolveRevision(plumbing.Revision(ref.Value))
		if err != nil {
			return plumbing.ZeroHash, wrap(KindReferenceNotFound, err, "failed to find revision `%s`", ref.Value)
		}
		return peelToCommit(repo, *hash)

	default:
		return plumbing.ZeroHash, wrap(KindReferenceNotFound, nil, "unknown git reference kind")
	}
}

// peelToCommit follows an annotated tag object through to the commit it
// points at. If id is not an annotated tag, it is assumed to already be a
// commit (or something resolvable as one) and is returned unchanged —
// mirroring lock.rs's `match obj.as_tag() { Some(tag) => ..., None => obj.id() }`.
func peelToCommit(repo *git.Repository, id plumbing.Hash) (plumbing.Hash, error) {
	tag, err := repo.TagObject(id)
	if err != nil {
		// id isn't an annotated tag object (most commonly it's already a
		// commit, e.g. a lightweight tag or a branch tip); use it as-is.
		return id, nil
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, wrap(KindReferenceNotPeelable, err, "tag `%s` does not peel to a commit", tag.Name)
	}
	return commit.Hash, nil
}
